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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionHappyPath(t *testing.T) {

	t.Parallel()

	state := StateIdle
	for _, event := range []Event{
		EventImageAccepted,
		EventMintRequested,
		EventUploadsComplete,
		EventTxResolved,
	} {
		next, err := transition(state, event)
		require.NoError(t, err, "event %s from %s", event, state)
		state = next
	}

	assert.Equal(t, StateSubmitted, state)
}

func TestTransitionFailureFromAnywhere(t *testing.T) {

	t.Parallel()

	for _, state := range []State{
		StateIdle,
		StateImageReady,
		StateUploading,
		StateMinting,
		StateSubmitted,
		StateFailed,
	} {
		next, err := transition(state, EventFailure)
		require.NoError(t, err)
		assert.Equal(t, StateFailed, next)
	}
}

func TestTransitionNoAutomaticRetry(t *testing.T) {

	t.Parallel()

	// a failed mint only leaves StateFailed through a fresh image
	_, err := transition(StateFailed, EventMintRequested)
	require.Error(t, err)

	next, err := transition(StateFailed, EventImageAccepted)
	require.NoError(t, err)
	assert.Equal(t, StateImageReady, next)
}

func TestTransitionRejectsOutOfOrderEvents(t *testing.T) {

	t.Parallel()

	invalid := []struct {
		state State
		event Event
	}{
		{StateIdle, EventMintRequested},
		{StateIdle, EventUploadsComplete},
		{StateIdle, EventTxResolved},
		{StateImageReady, EventUploadsComplete},
		{StateImageReady, EventTxResolved},
		{StateUploading, EventImageAccepted},
		{StateUploading, EventTxResolved},
		{StateMinting, EventMintRequested},
	}

	for _, tc := range invalid {
		same, err := transition(tc.state, tc.event)
		assert.Error(t, err, "expected %s -> %s to be rejected", tc.state, tc.event)
		assert.Equal(t, tc.state, same)
	}
}
