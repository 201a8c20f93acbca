/*
main.go

Copyright © 2025 Code Monkey Cybersecurity
Contact: git@cybermonkey.net.au

This file is part of Harmonia.

This software is dual-licensed under the Do No Harm License
and the GNU Affero General Public License v3 (AGPL-3.0-or-later).
You may use, modify, and distribute it under the terms of either license.

See LICENSE.agpl and LICENSE.dnh for full details.
*/
package main

import (
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/harmonia/cmd"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/harmonia/pkg/telemetry"
)

func main() {
	logger.InitializeWithFallback()
	log := logger.L()
	if log == nil {
		panic("❌ logger.L() returned nil — logger not initialized")
	}

	// Telemetry is opt-in and local only; a broken setup must never stop a run.
	if err := telemetry.Init(shared.HarmoniaID); err != nil {
		log.Warn("⚠️ Telemetry initialization failed, continuing without it", zap.Error(err))
	}

	cmd.Execute()
}
