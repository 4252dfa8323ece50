//go:build !sqlite
// +build !sqlite

package store

import (
	"errors"

	logx "blocksched/pkg/logx"
)

func openSQLite(cfg Config, log logx.Logger) (Backend, error) {
	_ = cfg
	_ = log
	return nil, errors.New("sqlite store not built: build with -tags sqlite")
}
