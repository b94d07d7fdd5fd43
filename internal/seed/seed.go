package seed

import (
	"fmt"
	"log"

	"campfire/internal/models"

	"gorm.io/gorm"
)

// Demo populates the database with a small social graph: users, friendships,
// communities with mixed join policies, and posts with comments and likes.
func Demo(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 15
	}
	if opts.NumCommunities <= 0 {
		opts.NumCommunities = 4
	}
	if opts.PostsPerUser <= 0 {
		opts.PostsPerUser = 3
	}

	log.Printf("Seeding demo data: %d users, %d communities, ~%d posts per user...",
		opts.NumUsers, opts.NumCommunities, opts.PostsPerUser)

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("created %d users", len(users))

	friendships, err := seedFriendships(f, users)
	if err != nil {
		return fmt.Errorf("seed friendships: %w", err)
	}
	log.Printf("created %d friendships", friendships)

	communities, err := seedCommunities(f, users, opts.NumCommunities)
	if err != nil {
		return fmt.Errorf("seed communities: %w", err)
	}
	log.Printf("created %d communities", len(communities))

	posts, err := seedPosts(f, users, communities, opts.PostsPerUser)
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	commentCount, likeCount, err := seedEngagement(f, users, posts)
	if err != nil {
		return fmt.Errorf("seed engagement: %w", err)
	}
	log.Printf("created %d comments and %d likes", commentCount, likeCount)

	log.Println("Demo seeding completed")
	return nil
}

// seedFriendships connects each user to a few others. Roughly a quarter of
// the edges stay pending so the requests UI has something to show.
func seedFriendships(f *Factory, users []*models.User) (int, error) {
	count := 0
	for i, requester := range users {
		edges := f.rng.Intn(3) + 1
		for e := 0; e < edges; e++ {
			j := f.rng.Intn(len(users))
			if j == i {
				continue
			}
			status := models.FriendshipStatusAccepted
			if f.rng.Intn(4) == 0 {
				status = models.FriendshipStatusPending
			}
			if err := f.CreateFriendship(requester, users[j], status); err != nil {
				// the pair index rejects duplicate edges, skip and move on
				continue
			}
			count++
		}
	}
	return count, nil
}

func seedCommunities(f *Factory, users []*models.User, n int) ([]*models.Community, error) {
	communities := make([]*models.Community, 0, n)
	for i := 0; i < n; i++ {
		creator := users[f.rng.Intn(len(users))]
		community, err := f.CreateCommunity(creator)
		if err != nil {
			return nil, err
		}
		communities = append(communities, community)

		// admit a handful of members; request-policy communities also get
		// a pending join so approval flows have data
		joiners := f.rng.Intn(len(users)/2 + 1)
		for j := 0; j < joiners; j++ {
			user := users[f.rng.Intn(len(users))]
			if user.ID == creator.ID {
				continue
			}
			role := models.MembershipRoleMember
			if community.JoinPolicy == models.JoinPolicyRequest && f.rng.Intn(3) == 0 {
				role = models.MembershipRoleWaiting
			}
			if err := f.CreateMembership(community, user, role); err != nil {
				// composite key rejects duplicate memberships, skip
				continue
			}
		}
	}
	return communities, nil
}

func seedPosts(f *Factory, users []*models.User, communities []*models.Community, perUser int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, len(users)*perUser)
	for _, user := range users {
		n := f.rng.Intn(perUser) + 1
		for i := 0; i < n; i++ {
			post, err := f.CreatePost(user)
			if err != nil {
				return nil, err
			}
			posts = append(posts, post)
		}
	}

	for _, community := range communities {
		n := f.rng.Intn(3) + 1
		for i := 0; i < n; i++ {
			post, err := f.CreateCommunityPost(community)
			if err != nil {
				return nil, err
			}
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func seedEngagement(f *Factory, users []*models.User, posts []*models.Post) (int, int, error) {
	commentCount := 0
	likeCount := 0
	for _, post := range posts {
		numComments := f.rng.Intn(4)
		for i := 0; i < numComments; i++ {
			author := users[f.rng.Intn(len(users))]
			if _, err := f.CreateComment(author, post); err != nil {
				return commentCount, likeCount, err
			}
			commentCount++
		}

		numLikes := f.rng.Intn(len(users)/2 + 1)
		seen := make(map[uint]bool, numLikes)
		for i := 0; i < numLikes; i++ {
			user := users[f.rng.Intn(len(users))]
			if seen[user.ID] {
				continue
			}
			seen[user.ID] = true
			if err := f.CreateLike(user, post); err != nil {
				return commentCount, likeCount, err
			}
			likeCount++
		}
	}
	return commentCount, likeCount, nil
}
