package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/powercast/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterExists is returned when creating a character whose ID is already stored.
var ErrCharacterExists = errors.New("character already exists")

// CharacterRepository provides character persistence operations. A character
// is stored as one characters row plus one character_classes row per class
// entry, ordered by position.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create inserts a character and its class entries in one transaction and
// returns it with ID and timestamps set. A zero c.ID is replaced by a new
// random UUID.
//
// Precondition: c must be non-nil with a non-empty Name.
// Postcondition: Returns the stored character, or ErrCharacterExists on a duplicate ID.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	if c == nil {
		return nil, errors.New("character must not be nil")
	}
	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	hlc, err := json.Marshal(c.CurrentStats.HighLevelCasting)
	if err != nil {
		return nil, fmt.Errorf("encoding high level casting: %w", err)
	}
	tweaks, err := marshalTweaks(c.Tweaks)
	if err != nil {
		return nil, err
	}

	out := *c
	out.ID = id
	out.Classes = append([]character.ClassEntry(nil), c.Classes...)
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO characters
				(id, name, strength, dexterity, constitution, intelligence, wisdom, charisma,
				 tech_points_used, force_points_used, high_level_casting,
				 custom_tech_powers, custom_force_powers, tweaks)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
			RETURNING created_at, updated_at`,
			id, c.Name,
			c.Abilities.Strength, c.Abilities.Dexterity, c.Abilities.Constitution,
			c.Abilities.Intelligence, c.Abilities.Wisdom, c.Abilities.Charisma,
			c.CurrentStats.TechPointsUsed, c.CurrentStats.ForcePointsUsed, hlc,
			orEmpty(c.CustomTechPowers), orEmpty(c.CustomForcePowers), tweaks,
		).Scan(&out.CreatedAt, &out.UpdatedAt); err != nil {
			return err
		}
		return insertClasses(ctx, tx, id, c.Classes)
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterExists
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return &out, nil
}

func insertClasses(ctx context.Context, tx pgx.Tx, id uuid.UUID, classes []character.ClassEntry) error {
	batch := &pgx.Batch{}
	for i, e := range classes {
		var archName *string
		var archTech, archForce []string
		if e.Archetype != nil {
			name := e.Archetype.Name
			archName = &name
			archTech, archForce = e.Archetype.TechPowers, e.Archetype.ForcePowers
		}
		batch.Queue(`
			INSERT INTO character_classes
				(character_id, position, name, levels, archetype_name,
				 archetype_tech_powers, archetype_force_powers, tech_powers, force_powers)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			id, i, e.Name, e.Levels, archName,
			orEmpty(archTech), orEmpty(archForce), orEmpty(e.TechPowers), orEmpty(e.ForcePowers),
		)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting class entries: %w", err)
	}
	return nil
}

// GetByID retrieves a character and its class entries.
//
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id uuid.UUID) (*character.Character, error) {
	var (
		c      character.Character
		hlc    []byte
		tweaks []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, name, strength, dexterity, constitution, intelligence, wisdom, charisma,
		       tech_points_used, force_points_used, high_level_casting,
		       custom_tech_powers, custom_force_powers, tweaks, created_at, updated_at
		FROM characters WHERE id = $1`,
		id,
	).Scan(
		&c.ID, &c.Name,
		&c.Abilities.Strength, &c.Abilities.Dexterity, &c.Abilities.Constitution,
		&c.Abilities.Intelligence, &c.Abilities.Wisdom, &c.Abilities.Charisma,
		&c.CurrentStats.TechPointsUsed, &c.CurrentStats.ForcePointsUsed, &hlc,
		&c.CustomTechPowers, &c.CustomForcePowers, &tweaks, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	if len(hlc) > 0 {
		if err := json.Unmarshal(hlc, &c.CurrentStats.HighLevelCasting); err != nil {
			return nil, fmt.Errorf("decoding high level casting: %w", err)
		}
	}
	if c.Tweaks, err = unmarshalTweaks(tweaks); err != nil {
		return nil, err
	}

	c.Classes, err = r.listClasses(ctx, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CharacterRepository) listClasses(ctx context.Context, id uuid.UUID) ([]character.ClassEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, levels, archetype_name, archetype_tech_powers, archetype_force_powers,
		       tech_powers, force_powers
		FROM character_classes WHERE character_id = $1 ORDER BY position ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("listing class entries: %w", err)
	}
	defer rows.Close()

	classes := make([]character.ClassEntry, 0)
	for rows.Next() {
		var (
			e         character.ClassEntry
			archName  *string
			archTech  []string
			archForce []string
		)
		if err := rows.Scan(
			&e.Name, &e.Levels, &archName, &archTech, &archForce, &e.TechPowers, &e.ForcePowers,
		); err != nil {
			return nil, fmt.Errorf("scanning class entry row: %w", err)
		}
		if archName != nil {
			e.Archetype = &character.ArchetypeChoice{Name: *archName, TechPowers: archTech, ForcePowers: archForce}
		}
		classes = append(classes, e)
	}
	return classes, rows.Err()
}

// SaveStats persists a character's spent power points and high level casting slots.
//
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row updated.
func (r *CharacterRepository) SaveStats(ctx context.Context, id uuid.UUID, stats character.CurrentStats) error {
	hlc, err := json.Marshal(stats.HighLevelCasting)
	if err != nil {
		return fmt.Errorf("encoding high level casting: %w", err)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE characters
		SET tech_points_used = $2, force_points_used = $3, high_level_casting = $4, updated_at = NOW()
		WHERE id = $1`,
		id, stats.TechPointsUsed, stats.ForcePointsUsed, hlc,
	)
	if err != nil {
		return fmt.Errorf("saving character stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// Delete removes a character and, by cascade, its class entries.
//
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row deleted.
func (r *CharacterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

func marshalTweaks(t character.Tweaks) ([]byte, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encoding tweaks: %w", err)
	}
	return b, nil
}

func unmarshalTweaks(b []byte) (character.Tweaks, error) {
	var t character.Tweaks
	if len(b) == 0 {
		return t, nil
	}
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("decoding tweaks: %w", err)
	}
	if len(t) == 0 {
		return nil, nil
	}
	return t, nil
}

// orEmpty maps nil to an empty slice so NOT NULL text[] columns receive '{}'.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
