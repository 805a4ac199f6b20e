package service

import (
	"context"
	"errors"
	"opsbot/internal/core/domain"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// NoRoles is the default authorizer: nobody holds any role, so only ungated commands run.
type NoRoles struct{}

func (NoRoles) Roles(_ context.Context, _ *domain.Message) ([]string, error) {
	return []string{}, nil
}

type roleBinding struct {
	ID    string   `mapstructure:"id"`
	Roles []string `mapstructure:"roles"`
}

// ConfigAuthorizer resolves roles from the [[auth.users]] tables of the config file.
type ConfigAuthorizer struct {
	users map[string][]string
}

func NewConfigAuthorizer() (*ConfigAuthorizer, error) {
	var bindings []roleBinding

	err := viper.UnmarshalKey("auth.users", &bindings)
	if err != nil {
		return nil, errors.New("failed to load user roles")
	}

	users := make(map[string][]string, len(bindings))
	for _, b := range bindings {
		if b.ID == "" {
			log.Warn().Strs("roles", b.Roles).Msg("ignoring role binding without user id")
			continue
		}
		users[b.ID] = append(users[b.ID], b.Roles...)
	}

	log.Info().Int("users", len(users)).Msg("loaded role bindings")

	return &ConfigAuthorizer{users: users}, nil
}

func (a *ConfigAuthorizer) Roles(_ context.Context, message *domain.Message) ([]string, error) {
	held := a.users[message.User]

	roles := make([]string, len(held))
	copy(roles, held)

	return roles, nil
}
