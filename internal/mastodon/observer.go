// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mastodon

import "time"

// RequestObserver receives one callback per completed HTTP request.
// statusCode is 0 when no response was received.
type RequestObserver interface {
	ObserveRequest(endpoint string, statusCode int, duration time.Duration)
}

// ObserverFunc adapts a function to RequestObserver.
type ObserverFunc func(endpoint string, statusCode int, duration time.Duration)

// ObserveRequest implements RequestObserver.
func (f ObserverFunc) ObserveRequest(endpoint string, statusCode int, duration time.Duration) {
	f(endpoint, statusCode, duration)
}

// MultiObserver fans a callback out to every non-nil observer.
func MultiObserver(observers ...RequestObserver) RequestObserver {
	list := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multiObserver []RequestObserver

func (m multiObserver) ObserveRequest(endpoint string, statusCode int, duration time.Duration) {
	for _, o := range m {
		o.ObserveRequest(endpoint, statusCode, duration)
	}
}
