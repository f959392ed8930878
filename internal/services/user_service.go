package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/socialnet/backend/internal/apperrors"
	"github.com/anonto42/socialnet/backend/internal/auth"
	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/repositories"
	"github.com/anonto42/socialnet/backend/pkg/firebase"
	"golang.org/x/crypto/bcrypt"
)

// TokenVerifier checks third-party ID tokens
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebase.Identity, error)
}

// AuthResult is returned by every login flow
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type UserService struct {
	users    repositories.UserRepository
	rel      repositories.RelationshipRepository
	tokens   *auth.TokenManager
	verifier TokenVerifier
}

func NewUserService(users repositories.UserRepository, rel repositories.RelationshipRepository, tokens *auth.TokenManager, verifier TokenVerifier) *UserService {
	return &UserService{users: users, rel: rel, tokens: tokens, verifier: verifier}
}

func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("email already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Wrap(err, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}
	user := &models.User{
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          email,
		Password:       string(hash),
		ProfilePrivacy: models.TierPublic,
		PostsPrivacy:   models.TierFriends,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, apperrors.Wrap(err, "failed to create user")
	}
	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load user")
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}
	return s.issue(user)
}

// FirebaseLogin exchanges a Firebase ID token for a local token, linking or
// creating the account on first use
func (s *UserService) FirebaseLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	if s.verifier == nil {
		return nil, apperrors.Unauthorized("firebase login is not enabled")
	}
	identity, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid firebase ID token")
	}

	user, err := s.users.GetUserByFirebaseUID(ctx, identity.UID)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		user, err = s.linkOrCreate(ctx, identity)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.Wrap(err, "failed to load user")
	}
	return s.issue(user)
}

func (s *UserService) linkOrCreate(ctx context.Context, identity *firebase.Identity) (*models.User, error) {
	if identity.Email == "" {
		return nil, apperrors.Validation("idToken", "firebase account has no email")
	}
	uid := identity.UID

	user, err := s.users.GetUserByEmail(ctx, identity.Email)
	if err == nil {
		user.FirebaseUID = &uid
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, apperrors.Wrap(err, "failed to link firebase account")
		}
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Wrap(err, "failed to load user")
	}

	first, last, _ := strings.Cut(strings.TrimSpace(identity.Name), " ")
	user = &models.User{
		FirstName:      first,
		LastName:       strings.TrimSpace(last),
		Email:          strings.ToLower(identity.Email),
		FirebaseUID:    &uid,
		ProfilePrivacy: models.TierPublic,
		PostsPrivacy:   models.TierFriends,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, apperrors.Wrap(err, "failed to create user")
	}
	return user, nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue token")
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *UserService) Me(ctx context.Context, userID uint) (*models.Profile, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	return &models.Profile{User: *user, Privacy: user.Privacy()}, nil
}

// Profile applies the target's profile tier to the viewer
func (s *UserService) Profile(ctx context.Context, viewer, userID uint) (*models.Profile, error) {
	if viewer == userID {
		return s.Me(ctx, userID)
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	blocked, err := s.rel.IsBlockedEitherWay(ctx, viewer, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check blocks")
	}
	if blocked {
		return nil, apperrors.NotFound("user")
	}
	isFriend, err := s.rel.AreFriends(ctx, viewer, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check friendship")
	}

	switch user.ProfilePrivacy {
	case models.TierPrivate:
		return nil, apperrors.Forbidden("profile is private")
	case models.TierFriends:
		if !isFriend {
			return nil, apperrors.Forbidden("profile is only visible to friends")
		}
	}
	return &models.Profile{User: *user, Privacy: user.Privacy(), IsFriend: isFriend}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&user.FirstName, req.FirstName)
	assign(&user.LastName, req.LastName)
	assign(&user.Bio, req.Bio)
	assign(&user.Location, req.Location)
	assign(&user.Website, req.Website)
	assign(&user.Avatar, req.Avatar)

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, apperrors.Wrap(err, "failed to update profile")
	}
	return user, nil
}

func (s *UserService) UpdatePrivacy(ctx context.Context, userID uint, req models.UpdatePrivacyRequest) (models.Privacy, error) {
	for field, tier := range map[string]models.Tier{"profile": req.Profile, "posts": req.Posts} {
		if tier != "" && !tier.Valid() {
			return models.Privacy{}, apperrors.Validation(field, "invalid privacy tier")
		}
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return models.Privacy{}, lookupError(err, "user")
	}
	if req.Profile != "" {
		user.ProfilePrivacy = req.Profile
	}
	if req.Posts != "" {
		user.PostsPrivacy = req.Posts
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return models.Privacy{}, apperrors.Wrap(err, "failed to update privacy")
	}
	return user.Privacy(), nil
}

// Search matches names and email case-insensitively, skipping the viewer
// and anyone blocked in either direction
func (s *UserService) Search(ctx context.Context, viewer uint, query string, page, limit int) ([]models.UserCompact, int64, Paging, error) {
	paging := NewPaging(page, limit)
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, paging, apperrors.Validation("q", "search query is required")
	}

	blocked, err := s.rel.BlockedIDs(ctx, viewer)
	if err != nil {
		return nil, 0, paging, apperrors.Wrap(err, "failed to load blocked users")
	}
	blockedBy, err := s.rel.BlockedByIDs(ctx, viewer)
	if err != nil {
		return nil, 0, paging, apperrors.Wrap(err, "failed to load blocked users")
	}
	excluded := append(append([]uint{viewer}, blocked...), blockedBy...)

	found, total, err := s.users.SearchUsers(ctx, query, excluded, paging.Offset(), paging.Limit)
	if err != nil {
		return nil, 0, paging, apperrors.Wrap(err, "failed to search users")
	}

	out := make([]models.UserCompact, 0, len(found))
	for i := range found {
		out = append(out, found[i].ToCompact())
	}
	return out, total, paging, nil
}
