package http

import (
	"github.com/go-auth-core/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-auth-core/internal/infrastructure/jwt"
	redisinfra "github.com/go-auth-core/internal/infrastructure/redis"
	"github.com/go-auth-core/internal/infrastructure/smtp"
	"github.com/go-auth-core/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router. Lifecycle is
// owned by the process entry point; nothing here is a lazy singleton.
type Deps struct {
	UserRepo  *dynamo.UserRepo
	RoleRepo  *dynamo.RoleRepo
	KVStore   *redisinfra.Store
	Codec     *jwtinfra.Codec
	Mailer    smtp.Mailer
	SMSSender sns.SMSSender
}
