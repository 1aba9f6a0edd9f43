// Command bootstrap-agent creates the first agent account directly in the
// database. Run it once per environment; it is idempotent for an existing agent.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	flag "github.com/spf13/pflag"

	"github.com/foundly/foundly/internal/auth"
	"github.com/foundly/foundly/internal/model"
	"github.com/foundly/foundly/internal/repository"
)

type output struct {
	UserID  string     `json:"user_id"`
	Email   string     `json:"email"`
	Role    model.Role `json:"role"`
	Created bool       `json:"created"`
}

// agentStore is the subset of the repository the command needs.
type agentStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
}

type agentInput struct {
	Email    string
	Name     string
	Password string
}

var errNotAgent = errors.New("account exists but is not an agent")

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.StringP("email", "e", "", "Agent email (required)")
		name        = flag.StringP("name", "n", "Agent", "Display name")
		password    = flag.StringP("password", "p", os.Getenv("BOOTSTRAP_AGENT_PASSWORD"), "Initial password (defaults to $BOOTSTRAP_AGENT_PASSWORD)")
		migrate     = flag.Bool("migrate", false, "Apply schema migrations before creating the account")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fail("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fail("connect database: %v", err)
	}
	defer repo.Close()

	if *migrate {
		if err := repo.Migrate(ctx); err != nil {
			fail("migrate: %v", err)
		}
	}

	user, created, err := ensureAgent(ctx, repo, auth.NewPasswordHasher(auth.DefaultArgon2Params), agentInput{
		Email:    *email,
		Name:     *name,
		Password: *password,
	})
	if err != nil {
		fail("%v", err)
	}

	out := output{UserID: user.ID, Email: user.Email, Role: user.Role, Created: created}
	switch strings.ToLower(*format) {
	case "plain":
		if created {
			fmt.Printf("created agent %s (%s)\n", out.Email, out.UserID)
		} else {
			fmt.Printf("agent %s already exists (%s)\n", out.Email, out.UserID)
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fail("invalid format; use plain or json")
	}
}

// ensureAgent returns the agent with input.Email, creating it when absent.
// An existing non-agent account is an error; roles are never changed here.
func ensureAgent(ctx context.Context, store agentStore, hasher *auth.PasswordHasher, input agentInput) (*model.User, bool, error) {
	email := model.NormalizeEmail(input.Email)
	if email == "" {
		return nil, false, errors.New("--email is required")
	}

	existing, err := store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != model.RoleAgent {
			return nil, false, fmt.Errorf("%w: %s has role %s", errNotAgent, email, existing.Role)
		}
		return existing, false, nil
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, false, fmt.Errorf("look up user: %w", err)
	}

	if len(input.Password) < 6 {
		return nil, false, errors.New("password must contain at least 6 characters")
	}
	hash, err := hasher.Hash(input.Password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Role:         model.RoleAgent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return user, true, nil
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
