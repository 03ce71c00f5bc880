package bootstrap

import (
	"timegrid/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	JWTModule,
	AsynqModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
	CronModule,
)
