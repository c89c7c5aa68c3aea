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

package mint

import "fmt"

// State is one step of the mint workflow.
type State int

const (
	StateIdle State = iota
	StateImageReady
	StateUploading
	StateMinting
	StateSubmitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateImageReady:
		return "image_ready"
	case StateUploading:
		return "uploading"
	case StateMinting:
		return "minting"
	case StateSubmitted:
		return "submitted"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Event drives a state transition.
type Event int

const (
	EventImageAccepted Event = iota
	EventMintRequested
	EventUploadsComplete
	EventTxResolved
	EventFailure
)

func (e Event) String() string {
	switch e {
	case EventImageAccepted:
		return "image_accepted"
	case EventMintRequested:
		return "mint_requested"
	case EventUploadsComplete:
		return "uploads_complete"
	case EventTxResolved:
		return "tx_resolved"
	case EventFailure:
		return "failure"
	default:
		return fmt.Sprintf("unknown(%d)", int(e))
	}
}

// transition is the pure state-machine core: it maps (state, event) to
// the next state, with no side effects. Any step may fail.
func transition(state State, event Event) (State, error) {
	if event == EventFailure {
		return StateFailed, nil
	}

	switch state {
	case StateIdle, StateFailed, StateSubmitted:
		// Terminal states accept a fresh image; there is no automatic
		// retry of a failed mint.
		if event == EventImageAccepted {
			return StateImageReady, nil
		}
	case StateImageReady:
		if event == EventMintRequested {
			return StateUploading, nil
		}
	case StateUploading:
		if event == EventUploadsComplete {
			return StateMinting, nil
		}
	case StateMinting:
		if event == EventTxResolved {
			return StateSubmitted, nil
		}
	}

	return state, fmt.Errorf("mint: invalid transition %s -> %s", state, event)
}
