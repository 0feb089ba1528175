package member

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/hazel/mudae-tracker-go/internal/domain"
	"github.com/hazel/mudae-tracker-go/internal/service/database"
)

// Repository reads the mirrored guild roster. The roster is what display
// names printed by Mudae get resolved against.
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewRepository(postgres *database.PostgresService, logger *zap.Logger) *Repository {
	return &Repository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// FindByDisplayName retrieves a member by their server display name.
func (r *Repository) FindByDisplayName(ctx context.Context, name string) (*domain.Member, error) {
	query := `
		SELECT id, username, display_name, is_bot, aliases
		FROM guild_members
		WHERE display_name = $1
		LIMIT 1
	`
	return r.queryOne(ctx, query, name)
}

// FindByUsername retrieves a member by their account name.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*domain.Member, error) {
	query := `
		SELECT id, username, display_name, is_bot, aliases
		FROM guild_members
		WHERE username = $1
		LIMIT 1
	`
	return r.queryOne(ctx, query, username)
}

// FindByAlias searches members by any recorded alias.
func (r *Repository) FindByAlias(ctx context.Context, alias string) (*domain.Member, error) {
	query := `
		SELECT id, username, display_name, is_bot, aliases
		FROM guild_members
		WHERE aliases @> to_jsonb(ARRAY[$1::text])
		LIMIT 1
	`
	return r.queryOne(ctx, query, alias)
}

// GetAllMembers returns the full roster, used to warm the in-memory tier.
func (r *Repository) GetAllMembers(ctx context.Context) ([]*domain.Member, error) {
	query := `
		SELECT id, username, display_name, is_bot, aliases
		FROM guild_members
		ORDER BY display_name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query guild members: %w", err)
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		member, err := scanMember(rows.Scan)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate guild members: %w", err)
	}

	return members, nil
}

func (r *Repository) queryOne(ctx context.Context, query string, arg any) (*domain.Member, error) {
	member, err := scanMember(r.db.QueryRowContext(ctx, query, arg).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query guild member: %w", err)
	}
	return member, nil
}

func scanMember(scan func(dest ...any) error) (*domain.Member, error) {
	var (
		member      domain.Member
		displayName sql.NullString
		aliasesJSON []byte
	)

	if err := scan(&member.ID, &member.Username, &displayName, &member.IsBot, &aliasesJSON); err != nil {
		return nil, err
	}

	member.DisplayName = displayName.String
	if member.DisplayName == "" {
		member.DisplayName = member.Username
	}

	if len(aliasesJSON) > 0 {
		if err := json.Unmarshal(aliasesJSON, &member.Aliases); err != nil {
			return nil, fmt.Errorf("failed to decode aliases for %s: %w", member.ID, err)
		}
	}

	return &member, nil
}
