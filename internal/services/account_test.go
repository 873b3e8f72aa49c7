package services_test

import (
	"github.com/google/uuid"
	"github.com/inkle/inkle-api/internal/models"
	"github.com/inkle/inkle-api/internal/services"
	"github.com/inkle/inkle-api/internal/testutil"
	"github.com/inkle/inkle-api/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *ServiceTestSuite) TestRegisterAndLogin() {
	user, err := s.accounts.Register(s.ctx, &services.RegisterRequest{
		Name:     "Carol",
		Email:    "carol@example.com",
		Password: "secret-pass",
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.RoleUser, user.Role)
	assert.NotEqual(s.T(), "secret-pass", user.PasswordHash)
	assert.Contains(s.T(), s.events.types(), queue.EventUserCreated)

	loggedIn, err := s.accounts.Login(s.ctx, &services.LoginRequest{Email: "carol@example.com", Password: "secret-pass"})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), user.ID, loggedIn.ID)

	_, err = s.accounts.Login(s.ctx, &services.LoginRequest{Email: "carol@example.com", Password: "wrong"})
	assert.ErrorIs(s.T(), err, services.ErrInvalidCredentials)

	_, err = s.accounts.Login(s.ctx, &services.LoginRequest{Email: "nobody@example.com", Password: "secret-pass"})
	assert.ErrorIs(s.T(), err, services.ErrInvalidCredentials)
}

func (s *ServiceTestSuite) TestRegisterValidation() {
	_, err := s.accounts.Register(s.ctx, &services.RegisterRequest{Name: "NoMail", Password: "x"})
	assert.ErrorIs(s.T(), err, services.ErrMissingFields)

	_, err = s.accounts.Register(s.ctx, &services.RegisterRequest{
		Name:     "Alice Again",
		Email:    s.alice.Email,
		Password: "whatever",
	})
	assert.ErrorIs(s.T(), err, services.ErrEmailTaken)
}

func (s *ServiceTestSuite) TestDeleteUserCascade() {
	alice := testutil.PrincipalOf(s.alice)
	bob := testutil.PrincipalOf(s.bob)

	alicePost, err := s.posts.CreatePost(s.ctx, alice, "alice post")
	require.NoError(s.T(), err)
	bobPost, err := s.posts.CreatePost(s.ctx, bob, "bob post")
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.posts.LikePost(s.ctx, bob, alicePost.ID))
	require.NoError(s.T(), s.posts.LikePost(s.ctx, alice, bobPost.ID))
	require.NoError(s.T(), s.posts.LikePost(s.ctx, testutil.PrincipalOf(s.admin), bobPost.ID))
	require.NoError(s.T(), s.graph.Follow(s.ctx, alice, s.bob.ID))
	require.NoError(s.T(), s.graph.Follow(s.ctx, bob, s.alice.ID))
	require.NoError(s.T(), s.graph.Follow(s.ctx, alice, s.admin.ID))
	require.NoError(s.T(), s.graph.Block(s.ctx, alice, s.owner.ID))
	require.NoError(s.T(), s.graph.Block(s.ctx, testutil.PrincipalOf(s.owner), s.bob.ID))

	require.NoError(s.T(), s.accounts.DeleteUser(s.ctx, testutil.PrincipalOf(s.owner), s.bob.ID))

	id := s.bob.ID
	repos := s.testDB.DB.Repositories()
	assert.Equal(s.T(), int64(0), s.count("users", "id = ?", id))
	assert.Equal(s.T(), int64(0), s.count("likes", "user_id = ? OR post_id = ?", id, bobPost.ID))

	posts, err := repos.Posts.CountByAuthorID(s.ctx, id)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(0), posts)
	follows, err := repos.Follows.CountInvolving(s.ctx, id)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(0), follows)
	blocks, err := repos.Blocks.CountInvolving(s.ctx, id)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(0), blocks)

	// unrelated rows survive
	assert.Equal(s.T(), int64(1), s.count("posts", "id = ?", alicePost.ID))
	alicePosts, err := repos.Posts.CountByAuthorID(s.ctx, s.alice.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), alicePosts)
	aliceFollows, err := repos.Follows.CountInvolving(s.ctx, s.alice.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), aliceFollows)
	ownerBlocks, err := repos.Blocks.CountInvolving(s.ctx, s.owner.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), ownerBlocks)
	assert.Equal(s.T(), int64(1), s.count("follows", "follower_id = ? AND followee_id = ?", s.alice.ID, s.admin.ID))
	assert.Equal(s.T(), int64(1), s.count("blocks", "blocker_id = ? AND blocked_id = ?", s.alice.ID, s.owner.ID))

	feed, err := s.activity.Feed(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "User deleted by Owner", feed[0].Text)
	assert.Equal(s.T(), models.ActivityDeleteUser, feed[0].Type)
	assert.Contains(s.T(), s.events.types(), queue.EventUserDeleted)
}

func (s *ServiceTestSuite) TestDeleteUserAuthorization() {
	err := s.accounts.DeleteUser(s.ctx, testutil.PrincipalOf(s.alice), s.bob.ID)
	assert.ErrorIs(s.T(), err, services.ErrInsufficientRole)
	assert.Equal(s.T(), int64(1), s.count("users", "id = ?", s.bob.ID))
	assert.Equal(s.T(), int64(0), s.activityCount(models.ActivityDeleteUser))

	err = s.accounts.DeleteUser(s.ctx, testutil.PrincipalOf(s.admin), uuid.New())
	assert.ErrorIs(s.T(), err, services.ErrUserNotFound)

	require.NoError(s.T(), s.accounts.DeleteUser(s.ctx, testutil.PrincipalOf(s.admin), s.bob.ID))
	feed, err := s.activity.Feed(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), feed, 1)
	assert.Equal(s.T(), "User deleted by Admin", feed[0].Text)
}

func (s *ServiceTestSuite) TestPromoteAndDemote() {
	owner := testutil.PrincipalOf(s.owner)

	_, err := s.accounts.Promote(s.ctx, testutil.PrincipalOf(s.admin), s.alice.ID)
	assert.ErrorIs(s.T(), err, services.ErrInsufficientRole)

	user, err := s.accounts.Promote(s.ctx, owner, s.alice.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.RoleAdmin, user.Role)

	// promoting again is a no-op
	user, err = s.accounts.Promote(s.ctx, owner, s.alice.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.RoleAdmin, user.Role)

	user, err = s.accounts.Demote(s.ctx, owner, s.alice.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.RoleUser, user.Role)

	_, err = s.accounts.Demote(s.ctx, owner, s.alice.ID)
	assert.ErrorIs(s.T(), err, services.ErrNotAdmin)

	_, err = s.accounts.Promote(s.ctx, owner, uuid.New())
	assert.ErrorIs(s.T(), err, services.ErrUserNotFound)

	stored, err := s.accounts.Me(s.ctx, testutil.PrincipalOf(s.alice))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.RoleUser, stored.Role)
}

func (s *ServiceTestSuite) TestDemotedAdminLosesModerationBeforeTokenExpiry() {
	owner := testutil.PrincipalOf(s.owner)
	_, err := s.accounts.Promote(s.ctx, owner, s.alice.ID)
	require.NoError(s.T(), err)

	// token issued while alice was an admin
	stale := services.Principal{ID: s.alice.ID, Role: models.RoleAdmin}
	post := s.testDB.CreatePost(s.T(), s.bob, "keep me")

	_, err = s.accounts.Demote(s.ctx, owner, s.alice.ID)
	require.NoError(s.T(), err)

	err = s.posts.DeletePost(s.ctx, stale, post.ID)
	assert.ErrorIs(s.T(), err, services.ErrInsufficientRole)
	assert.Equal(s.T(), int64(1), s.count("posts", "id = ?", post.ID))
	assert.Equal(s.T(), int64(0), s.activityCount(models.ActivityDeletePost))

	err = s.accounts.DeleteUser(s.ctx, stale, s.bob.ID)
	assert.ErrorIs(s.T(), err, services.ErrInsufficientRole)
	assert.Equal(s.T(), int64(1), s.count("users", "id = ?", s.bob.ID))
	assert.Equal(s.T(), int64(0), s.activityCount(models.ActivityDeleteUser))
}

func (s *ServiceTestSuite) TestDemotedOwnerCannotChangeRoles() {
	require.NoError(s.T(), s.testDB.DB.Repositories().Users.UpdateRole(s.ctx, s.owner.ID, models.RoleUser))

	_, err := s.accounts.Promote(s.ctx, testutil.PrincipalOf(s.owner), s.alice.ID)
	assert.ErrorIs(s.T(), err, services.ErrInsufficientRole)

	stored, err := s.accounts.Me(s.ctx, testutil.PrincipalOf(s.alice))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.RoleUser, stored.Role)
}

func (s *ServiceTestSuite) TestEnsureOwner() {
	req := &services.RegisterRequest{Name: "Root", Email: "root@example.com", Password: "rootpass"}

	owner, err := s.accounts.EnsureOwner(s.ctx, req)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.RoleOwner, owner.Role)

	again, err := s.accounts.EnsureOwner(s.ctx, req)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), owner.ID, again.ID)

	promoted, err := s.accounts.EnsureOwner(s.ctx, &services.RegisterRequest{
		Name: "Alice", Email: s.alice.Email, Password: "ignored",
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.alice.ID, promoted.ID)
	assert.Equal(s.T(), models.RoleOwner, promoted.Role)
}

func (s *ServiceTestSuite) TestListUsers() {
	users, err := s.accounts.ListUsers(s.ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), users, 4)
}
