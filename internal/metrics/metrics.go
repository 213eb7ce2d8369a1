// Copyright (C) 2025 ecrypt-io
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package metrics instruments the module's crypto operations: counts,
// error rates, and latency histograms for Secure Cell seals and Secure
// Session handshakes and wraps. The primitives package records no metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "ecrypt"

// Registry is a dedicated Prometheus registry rather than the global
// default one, so embedding this module into a larger binary never
// collides with that binary's own metric names.
var Registry = prometheus.NewRegistry()
