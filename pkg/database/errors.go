package database

import "errors"

// ErrNotReady indicates the database has not answered a ping since startup,
// or has stopped answering.
var ErrNotReady = errors.New("database not ready")
