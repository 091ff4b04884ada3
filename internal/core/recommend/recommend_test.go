package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
	"recipe-recommender/internal/storage"
)

func recipe(id, cuisine string, cookingTime int, rating float64, total int, difficulty common.Difficulty) common.Recipe {
	return common.Recipe{
		ID:           id,
		Name:         "Recipe " + id,
		CuisineType:  cuisine,
		CookingTime:  cookingTime,
		Rating:       rating,
		TotalRatings: total,
		Difficulty:   difficulty,
	}
}

func ids(recipes []common.Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	return out
}

func TestPreferredDifficulty(t *testing.T) {
	tests := []struct {
		name    string
		history []common.Difficulty
		want    common.Difficulty
	}{
		{"no history", nil, common.DifficultyMedium},
		{"clear mode", []common.Difficulty{"easy", "hard", "easy"}, common.DifficultyEasy},
		{"tie goes to first seen", []common.Difficulty{"hard", "easy", "easy", "hard"}, common.DifficultyHard},
		{"unknown counts as medium", []common.Difficulty{"", "", "hard"}, common.DifficultyMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PreferredDifficulty(tt.history))
		})
	}
}

func TestScore(t *testing.T) {
	prefs := Preferences{FavoriteCuisines: []string{"Italian"}, PreferredCookingTime: 30}

	t.Run("all bonuses", func(t *testing.T) {
		r := recipe("a", "italian", 35, 4.5, 100, common.DifficultyMedium)
		// 9 + 10 + 5 + 5 + 3
		assert.InDelta(t, 32.0, Score(r, prefs, common.DifficultyMedium), 1e-9)
	})

	t.Run("near time and partial popularity", func(t *testing.T) {
		r := recipe("b", "thai", 48, 4.0, 25, common.DifficultyHard)
		// 8 + 0 + 2 + 2.5 + 0
		assert.InDelta(t, 12.5, Score(r, prefs, common.DifficultyMedium), 1e-9)
	})

	t.Run("far time", func(t *testing.T) {
		r := recipe("c", "thai", 90, 0, 0, common.DifficultyEasy)
		assert.Zero(t, Score(r, prefs, common.DifficultyMedium))
	})
}

func TestRankFavoriteCuisineWins(t *testing.T) {
	prefs := Preferences{FavoriteCuisines: []string{"mexican"}, PreferredCookingTime: 30}
	candidates := []common.Recipe{
		recipe("plain", "french", 30, 4.0, 10, common.DifficultyEasy),
		recipe("fav", "mexican", 30, 4.0, 10, common.DifficultyEasy),
	}

	ranked := Rank(candidates, prefs, nil)
	require.Len(t, ranked, 2)
	assert.Equal(t, "fav", ranked[0].ID)
	assert.Greater(t, *ranked[0].RecommendationScore, *ranked[1].RecommendationScore)
	assert.Nil(t, candidates[0].RecommendationScore)
}

func TestCollaborativeRecipeIDs(t *testing.T) {
	got := CollaborativeRecipeIDs([][]string{{"r1", "r2"}, {"r2", "r3", "r4"}}, []string{"r3"})
	assert.Equal(t, []string{"r1", "r2", "r4"}, got)
	assert.Empty(t, CollaborativeRecipeIDs(nil, nil))
}

func TestMerge(t *testing.T) {
	primary := []common.Recipe{{ID: "a"}, {ID: "b"}}
	collab := []common.Recipe{{ID: "b"}, {ID: "c"}, {ID: "d"}}

	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(Merge(primary, collab, 10)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(Merge(primary, collab, 3)))
}

func TestTimeWindow(t *testing.T) {
	lo, hi := TimeWindow(30)
	assert.Equal(t, 24, lo)
	assert.Equal(t, 36, hi)

	lo, hi = TimeWindow(10)
	assert.Equal(t, 15, lo)
	assert.Equal(t, 12, hi)
}

type staticCatalog []common.Recipe

func (c staticCatalog) Recipes() []common.Recipe { return c }

func newService(t *testing.T, catalog Catalog) (*Service, *storage.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := storage.New(db)
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })

	return NewService(store, catalog, config.RecommendationConfig{DefaultLimit: 10, MaxLimit: 50}), store
}

func TestServiceClampLimit(t *testing.T) {
	svc, _ := newService(t, nil)
	assert.Equal(t, 10, svc.ClampLimit(0))
	assert.Equal(t, 10, svc.ClampLimit(-3))
	assert.Equal(t, 7, svc.ClampLimit(7))
	assert.Equal(t, 50, svc.ClampLimit(500))
}

func TestServiceRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("missing user id", func(t *testing.T) {
		svc, _ := newService(t, nil)
		_, err := svc.Recommend(ctx, "", 5)
		assert.True(t, common.IsValidationError(err))
	})

	t.Run("empty database falls back to catalog", func(t *testing.T) {
		catalog := staticCatalog{
			recipe("s1", "italian", 30, 4.0, 10, common.DifficultyEasy),
			recipe("s2", "thai", 30, 4.8, 40, common.DifficultyMedium),
		}
		svc, _ := newService(t, catalog)

		res, err := svc.Recommend(ctx, "new-user", 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"s2", "s1"}, ids(res.Recommendations))
		assert.Equal(t, 2, res.TotalFound)
		assert.Equal(t, 30, res.UserPreferences.PreferredCookingTime)
		assert.Equal(t, 0, res.UserPreferences.TotalFeedback)
		assert.NotNil(t, res.UserPreferences.FavoriteCuisines)
		for _, r := range res.Recommendations {
			assert.NotNil(t, r.RecommendationScore)
		}
	})

	t.Run("filters by preferences then relaxes", func(t *testing.T) {
		svc, store := newService(t, nil)
		for _, r := range []common.Recipe{
			recipe("it-fast", "Italian", 30, 4.0, 10, common.DifficultyEasy),
			recipe("it-slow", "Italian", 120, 5.0, 10, common.DifficultyEasy),
			recipe("mx", "Mexican", 30, 4.9, 10, common.DifficultyEasy),
		} {
			require.NoError(t, store.SaveRecipe(ctx, r))
		}

		user, err := store.GetOrCreateUser(ctx, "u1")
		require.NoError(t, err)
		user.Preferences.FavoriteCuisines = append(user.Preferences.FavoriteCuisines, "italian")
		require.NoError(t, store.SaveUser(ctx, user))

		res, err := svc.Recommend(ctx, "u1", 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"it-fast"}, ids(res.Recommendations))

		user.Preferences.FavoriteCuisines = append(user.Preferences.FavoriteCuisines[:0], "korean")
		require.NoError(t, store.SaveUser(ctx, user))

		res, err = svc.Recommend(ctx, "u1", 10)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"it-fast", "it-slow", "mx"}, ids(res.Recommendations))
	})

	t.Run("collaborative recipes follow primary and skip rated", func(t *testing.T) {
		svc, store := newService(t, nil)
		for _, r := range []common.Recipe{
			recipe("mine", "thai", 30, 3.0, 1, common.DifficultyHard),
			recipe("shared", "thai", 30, 4.0, 5, common.DifficultyHard),
			recipe("liked", "french", 200, 4.5, 5, common.DifficultyEasy),
		} {
			require.NoError(t, store.SaveRecipe(ctx, r))
		}
		for _, fb := range []storage.Feedback{
			{UserID: "u1", RecipeID: "mine", Rating: 5},
			{UserID: "other", RecipeID: "mine", Rating: 5},
			{UserID: "other", RecipeID: "liked", Rating: 4},
		} {
			fb := fb
			_, err := store.UpsertFeedback(ctx, &fb)
			require.NoError(t, err)
		}

		res, err := svc.Recommend(ctx, "u1", 10)
		require.NoError(t, err)
		assert.NotContains(t, ids(res.Recommendations), "mine")
		assert.Equal(t, 1, res.UserPreferences.TotalFeedback)
		// 主要候選為時間範圍內的 shared，liked 只能經由協同推薦出現
		assert.Equal(t, []string{"shared", "liked"}, ids(res.Recommendations))
	})
}
