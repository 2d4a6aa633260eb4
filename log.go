// Copyright 2022 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pushdown

import (
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"
)

// ErrUnknownLogFormat is returned for a log format other than text or json.
var ErrUnknownLogFormat = errors.NewKind("unknown log format %q")

// TableLogField is the logrus field holding the table being read.
const TableLogField = "table"

// NewLogger builds a logger from the given configuration.
func NewLogger(cfg LogConfig) (*logrus.Logger, error) {
	logger := logrus.New()
	if err := configureLogger(logger, cfg); err != nil {
		return nil, err
	}
	return logger, nil
}

func configureLogger(logger *logrus.Logger, cfg LogConfig) error {
	if cfg.Level != "" {
		lvl, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
		logger.SetLevel(lvl)
	}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return ErrUnknownLogFormat.New(cfg.Format)
	}
	return nil
}
