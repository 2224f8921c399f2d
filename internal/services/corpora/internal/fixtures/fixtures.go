// Package fixtures seeds a database with sample users and corpora described
// in YAML.
package fixtures

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/exchange"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/service"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/store"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed wauchier.yaml
var wauchier []byte

type Fixtures struct {
	Users   []User   `yaml:"users"`
	Corpora []Corpus `yaml:"corpora"`
}

type User struct {
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Password  string `yaml:"password"`
	Role      string `yaml:"role"`
	Confirmed bool   `yaml:"confirmed"`
}

type Corpus struct {
	Name         string      `yaml:"name"`
	Owner        string      `yaml:"owner"`
	ContextLeft  int         `yaml:"context_left"`
	ContextRight int         `yaml:"context_right"`
	Delimiter    *string     `yaml:"delimiter"`
	ControlList  ControlList `yaml:"control_list"`
	// Tokens is a token file in the exchange format.
	Tokens string `yaml:"tokens"`
}

type ControlList struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Lemma       []string       `yaml:"lemma"`
	POS         []string       `yaml:"POS"`
	Morph       []AllowedMorph `yaml:"morph"`
}

type AllowedMorph struct {
	Label    string `yaml:"label"`
	Readable string `yaml:"readable"`
}

// Default returns the bundled Wauchier sample.
func Default() (Fixtures, error) {
	return Parse(wauchier)
}

func Parse(data []byte) (Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixtures{}, fmt.Errorf("parse fixtures: %w", err)
	}

	for _, c := range f.Corpora {
		if !f.hasUser(c.Owner) {
			return Fixtures{}, fmt.Errorf("corpus %q: unknown owner %q", c.Name, c.Owner)
		}
	}

	return f, nil
}

func (f Fixtures) hasUser(email string) bool {
	for _, u := range f.Users {
		if u.Email == email {
			return true
		}
	}
	return false
}

func (cl ControlList) request() *service.NewControlList {
	n := &service.NewControlList{Name: cl.Name, Description: cl.Description}
	for _, l := range cl.Lemma {
		n.Lemma = append(n.Lemma, model.AllowedValue{Label: l})
	}
	for _, p := range cl.POS {
		n.POS = append(n.POS, model.AllowedValue{Label: p})
	}
	for _, m := range cl.Morph {
		n.Morph = append(n.Morph, model.AllowedValue{Label: m.Label, Readable: m.Readable})
	}
	return n
}

// Loader writes fixtures through the store and the corpora service.
type Loader struct {
	store   store.Store
	corpora *service.Corpora
	cost    int
}

func NewLoader(st store.Store, corpora *service.Corpora, hashCost int) *Loader {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	return &Loader{store: st, corpora: corpora, cost: hashCost}
}

// Load creates the users then the corpora of f, each corpus being owned by
// the user named in its owner field.
func (l *Loader) Load(ctx context.Context, f Fixtures) error {
	actors := make(map[string]model.Actor, len(f.Users))
	for _, u := range f.Users {
		a, err := l.createUser(ctx, u)
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
		actors[u.Email] = a
	}

	for _, c := range f.Corpora {
		tokens, err := exchange.ReadTokens(strings.NewReader(c.Tokens))
		if err != nil {
			return fmt.Errorf("corpus %q: %w", c.Name, err)
		}

		created, err := l.corpora.Create(ctx, actors[c.Owner], service.CreateCorpusRequest{
			Name:           c.Name,
			ControlList:    c.ControlList.request(),
			ContextLeft:    c.ContextLeft,
			ContextRight:   c.ContextRight,
			DelimiterToken: c.Delimiter,
			Tokens:         tokens,
		})
		if err != nil {
			return fmt.Errorf("corpus %q: %w", c.Name, err)
		}

		slog.Info("fixture corpus created", "id", created.ID, "name", created.Name, "tokens", len(tokens))
	}

	return nil
}

func (l *Loader) createUser(ctx context.Context, u User) (model.Actor, error) {
	role, err := l.store.GetRole(ctx, u.Role)
	if err != nil {
		return model.Actor{}, fmt.Errorf("role %q: %w", u.Role, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), l.cost)
	if err != nil {
		return model.Actor{}, fmt.Errorf("hash password: %w", err)
	}

	id, err := l.store.CreateUser(ctx, store.CreateUserRequest{
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		Confirmed:    u.Confirmed,
	})
	if err != nil {
		return model.Actor{}, fmt.Errorf("create user: %w", err)
	}

	slog.Info("fixture user created", "id", id, "email", u.Email)
	return model.Actor{UserID: id, Permissions: role.Permissions}, nil
}
