// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

/*
Package supervisor runs the serve command's services under suture v4.

# Tree

	RootSupervisor ("gadvi")
	├── TrainingSupervisor ("training-layer")
	│   └── RetrainService (if RETRAIN_INTERVAL > 0)
	├── EventsSupervisor ("events-layer")
	│   └── ModelReloadService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer restarts independently: a crashing retrain never takes the HTTP
server down, and the served model stays in place until a new one is
published.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Supervisor.ShutdownTimeout,
	})
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Supervisor.ShutdownTimeout, logger))
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Supervisor events (start, failure, backoff) are logged through sutureslog.
*/
package supervisor
