/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package common

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trustbloc/logutil-go/pkg/log"
)

const testLogModuleName = "test"

var logger = log.New(testLogModuleName)

func TestSetDefaultLogLevel(t *testing.T) {
	tests := []struct {
		name         string
		spec         string
		defaultLevel log.Level
		moduleLevel  *log.Level
	}{
		{
			name:         "debug",
			spec:         "debug",
			defaultLevel: log.DEBUG,
		},
		{
			name:         "invalid level",
			spec:         "mango",
			defaultLevel: log.INFO,
		},
		{
			name:         "module spec",
			spec:         testLogModuleName + "=ERROR:WARNING",
			defaultLevel: log.WARNING,
			moduleLevel:  levelPtr(log.ERROR),
		},
		{
			name:         "invalid module spec",
			spec:         testLogModuleName + "=MANGO:WARNING",
			defaultLevel: log.INFO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetLoggingLevels()

			SetDefaultLogLevel(logger, tt.spec)

			require.Equal(t, tt.defaultLevel, log.GetLevel(""))
			if tt.moduleLevel != nil {
				require.Equal(t, *tt.moduleLevel, log.GetLevel(testLogModuleName))
			}
		})
	}
}

func resetLoggingLevels() {
	log.SetLevel("", log.INFO)
}

func levelPtr(l log.Level) *log.Level {
	return &l
}
