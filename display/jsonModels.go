// =================================================================================
//
//			fox-spl - https://www.foxhollow.cc/projects/fox-spl/
//
//		 Fox SPL is a touchscreen sound level meter that watches one or two
//	  audio inputs and flags material that is too quiet or too loud
//
//		 Copyright (c) 2024 Steve Cross <flip@foxhollow.cc>
//
//			Licensed under the Apache License, Version 2.0 (the "License");
//			you may not use this file except in compliance with the License.
//			You may obtain a copy of the License at
//
//			     http://www.apache.org/licenses/LICENSE-2.0
//
//			Unless required by applicable law or agreed to in writing, software
//			distributed under the License is distributed on an "AS IS" BASIS,
//			WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//			See the License for the specific language governing permissions and
//			limitations under the License.
//
// =================================================================================
package display

type JsonStatus struct {
	MessageType string `json:"message_type"`

	Uptime     float64 `json:"uptime"`
	ErrorCount uint64  `json:"error_count"`
	Statistic  string  `json:"statistic"`
	Speech     bool    `json:"speech"`
	Split      bool    `json:"split"`
	AWeighting bool    `json:"a_weighting"`
}

type JsonLog struct {
	MessageType string `json:"message_type"`

	Date    string `json:"date"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

type JsonLevels struct {
	MessageType string `json:"message_type"`

	Thresholds JsonThresholds `json:"thresholds"`
	Channels   []JsonChannel  `json:"channels"`
}

type JsonThresholds struct {
	Quiet float64 `json:"quiet"`
	Loud  float64 `json:"loud"`
}

type JsonChannel struct {
	Label   string  `json:"label"`
	Current float64 `json:"current"`
	Average float64 `json:"average"`
	State   string  `json:"state"`
	Feeds   uint64  `json:"feeds"`
}
