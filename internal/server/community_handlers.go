package server

import (
	"strings"

	"campfire/internal/cache"
	"campfire/internal/models"
	"campfire/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateCommunity handles POST /api/communities
func (s *Server) CreateCommunity(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		JoinPolicy  string `json:"join_policy"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateCommunityName(req.Name); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	if err := validation.ValidateCommunitySlug(req.Slug); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	joinPolicy := models.JoinPolicyOpen
	switch req.JoinPolicy {
	case "", string(models.JoinPolicyOpen):
	case string(models.JoinPolicyRequest):
		joinPolicy = models.JoinPolicyRequest
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("join_policy must be 'open' or 'request'"))
	}

	community, err := s.membershipService.CreateCommunity(c.Context(), &models.Community{
		Name:        strings.TrimSpace(req.Name),
		Slug:        req.Slug,
		Description: req.Description,
		JoinPolicy:  joinPolicy,
	}, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(community)
}

// GetCommunities handles GET /api/communities
func (s *Server) GetCommunities(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	communities, err := s.membershipService.ListCommunities(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(communities)
}

// GetCommunityBySlug handles GET /api/communities/:slug
func (s *Server) GetCommunityBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if err := validation.ValidateCommunitySlug(slug); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	// Community pages are hot reads; serve them cache-aside.
	var community models.Community
	err := cache.Aside(c.Context(), cache.CommunityKey(slug), &community, cache.CommunityTTL, func() error {
		found, ferr := s.membershipService.GetCommunityBySlug(c.Context(), slug)
		if ferr != nil {
			return ferr
		}
		community = *found
		return nil
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(community)
}

// JoinCommunity handles POST /api/communities/:id/join
func (s *Server) JoinCommunity(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	membership, err := s.membershipService.Join(c.Context(), communityID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	// The role tells the caller whether they are in or still waiting.
	return c.Status(fiber.StatusCreated).JSON(membership)
}

// LeaveCommunity handles POST /api/communities/:id/leave
func (s *Server) LeaveCommunity(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.membershipService.Leave(c.Context(), communityID, currentUserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Left community"})
}

// ApproveMember handles POST /api/communities/:id/members/:userId/approve
func (s *Server) ApproveMember(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	membership, err := s.membershipService.Approve(c.Context(), communityID, targetUserID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(membership)
}

// PromoteMember handles POST /api/communities/:id/members/:userId/promote
func (s *Server) PromoteMember(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	membership, err := s.membershipService.Promote(c.Context(), communityID, targetUserID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(membership)
}

// DemoteMember handles POST /api/communities/:id/members/:userId/demote
func (s *Server) DemoteMember(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	membership, err := s.membershipService.Demote(c.Context(), communityID, targetUserID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(membership)
}

// KickMember handles DELETE /api/communities/:id/members/:userId
func (s *Server) KickMember(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.membershipService.Kick(c.Context(), communityID, targetUserID, currentUserID(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Member removed"})
}

// DeleteCommunity handles DELETE /api/communities/:id
func (s *Server) DeleteCommunity(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	community, err := s.membershipService.GetCommunity(c.Context(), communityID)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.membershipService.DeleteCommunity(c.Context(), communityID, currentUserID(c)); err != nil {
		return respondError(c, err)
	}

	cache.InvalidateCommunity(c.Context(), community.Slug)

	return c.JSON(fiber.Map{"message": "Community deleted"})
}

// GetCommunityMembers handles GET /api/communities/:id/members
func (s *Server) GetCommunityMembers(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	members, err := s.membershipService.ListMembers(c.Context(), communityID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(members)
}

// GetMyCommunityRole handles GET /api/communities/:id/role
func (s *Server) GetMyCommunityRole(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	role, err := s.membershipService.GetRole(c.Context(), communityID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"role": role})
}

// GetMyMemberships handles GET /api/communities/memberships/me
func (s *Server) GetMyMemberships(c *fiber.Ctx) error {
	memberships, err := s.membershipService.ListUserMemberships(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(memberships)
}

// GetCommunityPosts handles GET /api/communities/:id/posts
func (s *Server) GetCommunityPosts(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	posts, err := s.postService.ListCommunityPosts(c.Context(), communityID, p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(posts)
}
