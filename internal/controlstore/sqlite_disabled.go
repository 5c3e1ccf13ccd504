//go:build !sqlite
// +build !sqlite

package controlstore

import (
	"errors"

	logx "rosebot/pkg/logx"
)

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	_ = cfg
	_ = log
	return nil, errors.New("sqlite controlstore not built: build with -tags sqlite")
}
