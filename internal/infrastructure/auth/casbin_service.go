package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// DefaultModel is used when no model file is configured.
// Subjects are "role_<name>", objects are request paths and actions are HTTP methods.
const DefaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// DefaultPolicies grant users product writes except delete, and admins everything under /api
var DefaultPolicies = [][]string{
	{"role_user", "/api/products*", "(POST)|(PUT)"},
	{"role_admin", "/api/*", "(GET)|(POST)|(PUT)|(DELETE)"},
}

type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService builds an enforcer whose policies are persisted through gorm
func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}
	m, err := loadModel(modelPath)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m, adp)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load casbin policy: %w", err)
	}
	return &CasbinService{E: e}, nil
}

// NewInMemoryCasbinService builds an enforcer without persistence
func NewInMemoryCasbinService(modelPath string) (*CasbinService, error) {
	m, err := loadModel(modelPath)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	return &CasbinService{E: e}, nil
}

// SeedDefaults adds DefaultPolicies; existing rules are left untouched
func (s *CasbinService) SeedDefaults() error {
	for _, p := range DefaultPolicies {
		if _, err := s.E.AddPolicy(p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("failed to seed policy %v: %w", p, err)
		}
	}
	return nil
}

func loadModel(modelPath string) (model.Model, error) {
	if modelPath == "" {
		m, err := model.NewModelFromString(DefaultModel)
		if err != nil {
			return nil, fmt.Errorf("failed to parse casbin model: %w", err)
		}
		return m, nil
	}
	m, err := model.NewModelFromFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model %s: %w", modelPath, err)
	}
	return m, nil
}
