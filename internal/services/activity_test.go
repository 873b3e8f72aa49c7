package services_test

import (
	"fmt"
	"time"

	"github.com/inkle/inkle-api/internal/models"
	"github.com/inkle/inkle-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *ServiceTestSuite) TestFeedIsCappedAndNewestFirst() {
	alice := testutil.PrincipalOf(s.alice)
	for i := 0; i < 60; i++ {
		_, err := s.posts.CreatePost(s.ctx, alice, fmt.Sprintf("post %d", i))
		require.NoError(s.T(), err)
	}
	assert.Equal(s.T(), int64(60), s.count("activities", ""))

	feed, err := s.activity.Feed(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), feed, 50)

	for i := 1; i < len(feed); i++ {
		prev, cur := feed[i-1], feed[i]
		assert.False(s.T(), prev.CreatedAt.Before(cur.CreatedAt), "feed out of order at %d", i)
		assert.Greater(s.T(), prev.ID, cur.ID)
	}

	var newest models.Activity
	require.NoError(s.T(), s.testDB.DB.Order("id DESC").First(&newest).Error)
	assert.Equal(s.T(), newest.ID, feed[0].ID)
}

func (s *ServiceTestSuite) TestFeedCacheInvalidatedOnWrite() {
	_, err := s.posts.CreatePost(s.ctx, testutil.PrincipalOf(s.alice), "one")
	require.NoError(s.T(), err)

	feed, err := s.activity.Feed(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), feed, 1)
	assert.True(s.T(), s.testRedis.Server.Exists("activity:feed"))

	require.NoError(s.T(), s.graph.Follow(s.ctx, testutil.PrincipalOf(s.alice), s.bob.ID))
	assert.False(s.T(), s.testRedis.Server.Exists("activity:feed"))

	feed, err = s.activity.Feed(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), feed, 2)
	assert.Equal(s.T(), "Alice followed Bob", feed[0].Text)
}

func (s *ServiceTestSuite) TestFeedServedFromCache() {
	_, err := s.posts.CreatePost(s.ctx, testutil.PrincipalOf(s.alice), "cached")
	require.NoError(s.T(), err)

	_, err = s.activity.Feed(s.ctx)
	require.NoError(s.T(), err)

	// a row written behind the service's back is not visible until the cache expires
	require.NoError(s.T(), s.testDB.DB.Create(&models.Activity{Type: models.ActivityPost, Text: "direct"}).Error)

	feed, err := s.activity.Feed(s.ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), feed, 1)

	s.testRedis.Server.FastForward(2 * time.Minute)
	feed, err = s.activity.Feed(s.ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), feed, 2)
}
