/*
 * NanoMint
 *
 * Copyright NanoMint Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts API operations by outcome. Served on /metrics via the
// default Prometheus registry.
type Metrics struct {
	Generations *prometheus.CounterVec
	Mints       *prometheus.CounterVec
	Scans       *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nanomint",
			Name:      "generations_total",
			Help:      "Image generation requests by outcome.",
		}, []string{"outcome"}),
		Mints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nanomint",
			Name:      "mints_total",
			Help:      "Mint attempts by outcome.",
		}, []string{"outcome"}),
		Scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nanomint",
			Name:      "collection_scans_total",
			Help:      "Collection scans by outcome.",
		}, []string{"outcome"}),
	}
}

// Register installs the counters on the given registerer, typically
// prometheus.DefaultRegisterer so promhttp picks them up.
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(m.Generations, m.Mints, m.Scans)
}
