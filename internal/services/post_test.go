package services_test

import (
	"github.com/google/uuid"
	"github.com/inkle/inkle-api/internal/models"
	"github.com/inkle/inkle-api/internal/services"
	"github.com/inkle/inkle-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *ServiceTestSuite) TestCreatePost() {
	post, err := s.posts.CreatePost(s.ctx, testutil.PrincipalOf(s.alice), "  hello world  ")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "hello world", post.Content)
	assert.Equal(s.T(), s.alice.ID, post.AuthorID)
	assert.NotEqual(s.T(), uuid.Nil, post.ID)

	feed, err := s.activity.Feed(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), feed, 1)
	assert.Equal(s.T(), "Alice made a post", feed[0].Text)
	assert.Equal(s.T(), models.ActivityPost, feed[0].Type)
}

func (s *ServiceTestSuite) TestCreatePostRejectsBlankContent() {
	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := s.posts.CreatePost(s.ctx, testutil.PrincipalOf(s.alice), content)
		assert.ErrorIs(s.T(), err, services.ErrEmptyContent)
	}
	assert.Equal(s.T(), int64(0), s.count("posts", ""))
	assert.Equal(s.T(), int64(0), s.count("activities", ""))
}

func (s *ServiceTestSuite) TestBlockHidesPostsFromBlockedUserOnly() {
	alicePost := s.testDB.CreatePost(s.T(), s.alice, "from alice")
	bobPost := s.testDB.CreatePost(s.T(), s.bob, "from bob")
	require.NoError(s.T(), s.graph.Block(s.ctx, testutil.PrincipalOf(s.alice), s.bob.ID))

	bobSees, err := s.posts.ListVisiblePosts(s.ctx, testutil.PrincipalOf(s.bob))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []uuid.UUID{bobPost.ID}, postIDs(bobSees))

	aliceSees, err := s.posts.ListVisiblePosts(s.ctx, testutil.PrincipalOf(s.alice))
	require.NoError(s.T(), err)
	assert.ElementsMatch(s.T(), []uuid.UUID{alicePost.ID, bobPost.ID}, postIDs(aliceSees))

	adminSees, err := s.posts.ListVisiblePosts(s.ctx, testutil.PrincipalOf(s.admin))
	require.NoError(s.T(), err)
	assert.Len(s.T(), adminSees, 2)
}

func (s *ServiceTestSuite) TestMultipleBlockersAllHidden() {
	s.testDB.CreatePost(s.T(), s.alice, "from alice")
	s.testDB.CreatePost(s.T(), s.admin, "from adam")
	bobPost := s.testDB.CreatePost(s.T(), s.bob, "from bob")
	require.NoError(s.T(), s.graph.Block(s.ctx, testutil.PrincipalOf(s.alice), s.bob.ID))
	require.NoError(s.T(), s.graph.Block(s.ctx, testutil.PrincipalOf(s.admin), s.bob.ID))

	bobSees, err := s.posts.ListVisiblePosts(s.ctx, testutil.PrincipalOf(s.bob))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []uuid.UUID{bobPost.ID}, postIDs(bobSees))

	ownerSees, err := s.posts.ListVisiblePosts(s.ctx, testutil.PrincipalOf(s.owner))
	require.NoError(s.T(), err)
	assert.Len(s.T(), ownerSees, 3)
}

func (s *ServiceTestSuite) TestListVisiblePostsNewestFirst() {
	first, err := s.posts.CreatePost(s.ctx, testutil.PrincipalOf(s.alice), "first")
	require.NoError(s.T(), err)
	second, err := s.posts.CreatePost(s.ctx, testutil.PrincipalOf(s.bob), "second")
	require.NoError(s.T(), err)

	posts, err := s.posts.ListVisiblePosts(s.ctx, testutil.PrincipalOf(s.alice))
	require.NoError(s.T(), err)
	require.Len(s.T(), posts, 2)
	assert.False(s.T(), posts[0].CreatedAt.Before(posts[1].CreatedAt))
	assert.ElementsMatch(s.T(), []uuid.UUID{first.ID, second.ID}, postIDs(posts))
}

func (s *ServiceTestSuite) TestListVisiblePostsUnknownViewer() {
	_, err := s.posts.ListVisiblePosts(s.ctx, services.Principal{ID: uuid.New(), Role: models.RoleUser})
	assert.ErrorIs(s.T(), err, services.ErrCurrentUserNotFound)
}

func (s *ServiceTestSuite) TestLikePost() {
	post := s.testDB.CreatePost(s.T(), s.alice, "like me")
	bob := testutil.PrincipalOf(s.bob)

	require.NoError(s.T(), s.posts.LikePost(s.ctx, bob, post.ID))

	feed, err := s.activity.Feed(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), feed, 1)
	assert.Equal(s.T(), "Bob liked Alice's post", feed[0].Text)

	s.assertKind(s.posts.LikePost(s.ctx, bob, post.ID), services.KindConflict)
	assert.Equal(s.T(), int64(1), s.count("likes", ""))
	assert.Equal(s.T(), int64(1), s.activityCount(models.ActivityLike))

	s.assertKind(s.posts.LikePost(s.ctx, bob, uuid.New()), services.KindNotFound)
}

func (s *ServiceTestSuite) TestLikeBlockedByAuthorIsForbidden() {
	post := s.testDB.CreatePost(s.T(), s.alice, "not for bob")
	require.NoError(s.T(), s.graph.Block(s.ctx, testutil.PrincipalOf(s.alice), s.bob.ID))

	err := s.posts.LikePost(s.ctx, testutil.PrincipalOf(s.bob), post.ID)
	assert.ErrorIs(s.T(), err, services.ErrBlockedByAuthor)
	assert.Equal(s.T(), int64(0), s.count("likes", ""))
	assert.Equal(s.T(), int64(0), s.activityCount(models.ActivityLike))
}

func (s *ServiceTestSuite) TestLikeAllowedWhenLikerBlockedAuthor() {
	post := s.testDB.CreatePost(s.T(), s.alice, "still likeable")
	require.NoError(s.T(), s.graph.Block(s.ctx, testutil.PrincipalOf(s.bob), s.alice.ID))

	require.NoError(s.T(), s.posts.LikePost(s.ctx, testutil.PrincipalOf(s.bob), post.ID))
	assert.Equal(s.T(), int64(1), s.count("likes", ""))
}

func (s *ServiceTestSuite) TestUnlikePost() {
	post := s.testDB.CreatePost(s.T(), s.alice, "post")
	bob := testutil.PrincipalOf(s.bob)

	assert.ErrorIs(s.T(), s.posts.UnlikePost(s.ctx, bob, post.ID), services.ErrNotLiked)

	require.NoError(s.T(), s.posts.LikePost(s.ctx, bob, post.ID))
	require.NoError(s.T(), s.posts.UnlikePost(s.ctx, bob, post.ID))
	assert.Equal(s.T(), int64(0), s.count("likes", ""))
	assert.Equal(s.T(), int64(1), s.count("activities", ""))
}

func (s *ServiceTestSuite) TestDeletePost() {
	post := s.testDB.CreatePost(s.T(), s.alice, "spam")
	require.NoError(s.T(), s.posts.LikePost(s.ctx, testutil.PrincipalOf(s.bob), post.ID))

	err := s.posts.DeletePost(s.ctx, testutil.PrincipalOf(s.bob), post.ID)
	assert.ErrorIs(s.T(), err, services.ErrInsufficientRole)
	assert.Equal(s.T(), int64(1), s.count("posts", ""))

	require.NoError(s.T(), s.posts.DeletePost(s.ctx, testutil.PrincipalOf(s.admin), post.ID))
	assert.Equal(s.T(), int64(0), s.count("posts", ""))
	assert.Equal(s.T(), int64(0), s.count("likes", ""))

	feed, err := s.activity.Feed(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Post deleted by Admin", feed[0].Text)
	assert.Equal(s.T(), models.ActivityDeletePost, feed[0].Type)

	err = s.posts.DeletePost(s.ctx, testutil.PrincipalOf(s.owner), post.ID)
	assert.ErrorIs(s.T(), err, services.ErrPostNotFound)
}

func (s *ServiceTestSuite) TestDeletePostByOwner() {
	post := s.testDB.CreatePost(s.T(), s.bob, "bye")

	require.NoError(s.T(), s.posts.DeletePost(s.ctx, testutil.PrincipalOf(s.owner), post.ID))

	feed, err := s.activity.Feed(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), feed, 1)
	assert.Equal(s.T(), "Post deleted by Owner", feed[0].Text)
}

func postIDs(posts []*models.Post) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
