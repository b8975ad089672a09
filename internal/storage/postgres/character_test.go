package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/powercast/internal/game/character"
	"github.com/cory-johannsen/powercast/internal/storage/postgres"
	"github.com/cory-johannsen/powercast/internal/testutil"
)

func setupCharRepo(t *testing.T) *postgres.CharacterRepository {
	t.Helper()
	return postgres.NewCharacterRepository(testutil.NewPool(t))
}

func intPtr(n int) *int { return &n }

func makeTestCharacter(name string) *character.Character {
	return &character.Character{
		Name: name,
		Classes: []character.ClassEntry{
			{
				Name:        "Consular",
				Levels:      5,
				Archetype:   &character.ArchetypeChoice{Name: "Way of the Sage", ForcePowers: []string{"Force Sight"}},
				ForcePowers: []string{"Force Push", "Battle Meditation"},
			},
			{Name: "Engineer", Levels: 2, TechPowers: []string{"Electroshock"}},
		},
		Abilities: character.AbilityScores{
			Strength: 8, Dexterity: 14, Constitution: 12,
			Intelligence: 16, Wisdom: 17, Charisma: 10,
		},
		CurrentStats: character.CurrentStats{
			ForcePointsUsed:  3,
			HighLevelCasting: character.HighLevelCasting{Level6: true},
		},
		CustomForcePowers: []string{"Saber Throw"},
		Tweaks: character.Tweaks{
			"forceCasting": {"maxPoints": {Override: intPtr(30)}},
			"techCasting":  {"saveDC": {Bonus: 1}},
		},
	}
}

func TestCharacterRepository_CreateAssignsID(t *testing.T) {
	repo := setupCharRepo(t)
	created, err := repo.Create(context.Background(), makeTestCharacter("Zara"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Zara", created.Name)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCharacterRepository_CreateKeepsGivenID(t *testing.T) {
	repo := setupCharRepo(t)
	c := makeTestCharacter("Zara")
	c.ID = uuid.New()
	created, err := repo.Create(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, c.ID, created.ID)
}

func TestCharacterRepository_DuplicateIDError(t *testing.T) {
	repo := setupCharRepo(t)
	ctx := context.Background()

	c := makeTestCharacter("Zara")
	c.ID = uuid.New()
	_, err := repo.Create(ctx, c)
	require.NoError(t, err)

	_, err = repo.Create(ctx, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, postgres.ErrCharacterExists)
}

func TestCharacterRepository_GetByIDRoundTrip(t *testing.T) {
	repo := setupCharRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, makeTestCharacter("Zara"))
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, 17, fetched.Abilities.Wisdom)
	assert.Equal(t, 3, fetched.CurrentStats.ForcePointsUsed)
	assert.True(t, fetched.CurrentStats.HighLevelCasting.Level6)
	assert.False(t, fetched.CurrentStats.HighLevelCasting.Level7)
	assert.Equal(t, []string{"Saber Throw"}, fetched.CustomForcePowers)
	assert.Empty(t, fetched.CustomTechPowers)

	require.Len(t, fetched.Classes, 2)
	assert.Equal(t, "Consular", fetched.Classes[0].Name)
	assert.Equal(t, 5, fetched.Classes[0].Levels)
	require.NotNil(t, fetched.Classes[0].Archetype)
	assert.Equal(t, "Way of the Sage", fetched.Classes[0].Archetype.Name)
	assert.Equal(t, []string{"Force Sight"}, fetched.Classes[0].Archetype.ForcePowers)
	assert.Equal(t, []string{"Force Push", "Battle Meditation"}, fetched.Classes[0].ForcePowers)
	assert.Equal(t, "Engineer", fetched.Classes[1].Name)
	assert.Nil(t, fetched.Classes[1].Archetype)

	tw, ok := fetched.Tweaks.Lookup("forceCasting.maxPoints")
	require.True(t, ok)
	require.NotNil(t, tw.Override)
	assert.Equal(t, 30, *tw.Override)
	tw, ok = fetched.Tweaks.Lookup("techCasting.saveDC")
	require.True(t, ok)
	assert.Nil(t, tw.Override)
	assert.Equal(t, 1, tw.Bonus)
}

func TestCharacterRepository_NoClassesNoTweaks(t *testing.T) {
	repo := setupCharRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &character.Character{Name: "Blank"})
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, fetched.Classes)
	assert.Empty(t, fetched.Classes)
	assert.Nil(t, fetched.Tweaks)
}

func TestCharacterRepository_GetByID_NotFound(t *testing.T) {
	repo := setupCharRepo(t)
	_, err := repo.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
}

func TestCharacterRepository_SaveStats(t *testing.T) {
	repo := setupCharRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, makeTestCharacter("Zara"))
	require.NoError(t, err)

	stats := character.CurrentStats{
		TechPointsUsed:   2,
		ForcePointsUsed:  9,
		HighLevelCasting: character.HighLevelCasting{Level7: true},
	}
	require.NoError(t, repo.SaveStats(ctx, created.ID, stats))

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, stats, fetched.CurrentStats)
}

func TestCharacterRepository_SaveStats_NotFound(t *testing.T) {
	repo := setupCharRepo(t)
	err := repo.SaveStats(context.Background(), uuid.New(), character.CurrentStats{})
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
}

func TestCharacterRepository_DeleteCascades(t *testing.T) {
	repo := setupCharRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, makeTestCharacter("Zara"))
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), postgres.ErrCharacterNotFound)
}

// TestCharacterRepository_Property_ClassOrderPreserved verifies that class
// entries come back in the order they were stored.
func TestCharacterRepository_Property_ClassOrderPreserved(t *testing.T) {
	repo := setupCharRepo(t)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 5).Draw(rt, "n")
		classes := make([]character.ClassEntry, n)
		for i := range classes {
			classes[i] = character.ClassEntry{
				Name:   rapid.SampledFrom([]string{"Consular", "Engineer", "Sentinel", "Guardian", "Scout"}).Draw(rt, "class"),
				Levels: rapid.IntRange(1, 20).Draw(rt, "levels"),
			}
		}
		created, err := repo.Create(ctx, &character.Character{Name: "Prop", Classes: classes})
		if err != nil {
			rt.Fatal(err)
		}
		fetched, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			rt.Fatal(err)
		}
		if len(fetched.Classes) != n {
			rt.Fatalf("got %d classes, want %d", len(fetched.Classes), n)
		}
		for i, e := range fetched.Classes {
			if e.Name != classes[i].Name || e.Levels != classes[i].Levels {
				rt.Fatalf("class %d = %+v, want %+v", i, e, classes[i])
			}
		}
	})
}

func TestPool_CharactersSharesPool(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	ctx := context.Background()

	created, err := pc.Pool.Characters().Create(ctx, makeTestCharacter("Zara"))
	require.NoError(t, err)
	fetched, err := postgres.NewCharacterRepository(pc.Pool.DB()).GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Zara", fetched.Name)
}
