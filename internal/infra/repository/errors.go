package repository

import (
	"log/slog"

	"fastpick/internal/infra"
	"fastpick/internal/pkg/pgconv"
)

// wrapPgErr maps a driver error onto a repository error kind.
func wrapPgErr(logger *slog.Logger, msg string, err error) error {
	switch {
	case pgconv.IsNoRows(err):
		return infra.WrapRepoErr(logger, infra.KindNotFound, msg, err)
	case pgconv.IsLockNotAvailable(err):
		return infra.WrapRepoErr(logger, infra.KindLockTimeout, msg, err)
	case pgconv.IsUniqueViolation(err):
		return infra.WrapRepoErr(logger, infra.KindDuplicateKey, msg, err)
	case pgconv.IsForeignKeyViolation(err):
		return infra.WrapRepoErr(logger, infra.KindForeignKeyViolated, msg, err)
	default:
		return infra.WrapRepoErr(logger, infra.KindDBFailure, msg, err)
	}
}
