// This file is part of GopherBlaster.
//
// GopherBlaster is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherBlaster is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherBlaster.  If not, see <https://www.gnu.org/licenses/>.

//go:build headless

package otoaudio

import (
	"fmt"

	"github.com/jetsetilly/gopherblaster/logger"
)

// Audio is not available in headless builds.
type Audio struct{}

// Available returns true if the package was built with sound device support.
func Available() bool {
	return false
}

// NewAudio always returns an error in headless builds.
func NewAudio(_ logger.Permission, _ int) (*Audio, error) {
	return nil, fmt.Errorf("otoaudio: sound device not available in headless builds")
}

// SetAudio implements the audio.Sink interface.
func (aud *Audio) SetAudio(_ []int16) error {
	return nil
}

// EndMixing implements the audio.Sink interface.
func (aud *Audio) EndMixing() error {
	return nil
}

// Reset implements the audio.Sink interface.
func (aud *Audio) Reset() {
}
