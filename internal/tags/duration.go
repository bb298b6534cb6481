package tags

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/llehouerou/go-m4a"
	"github.com/llehouerou/go-mp3"
	"go.senan.xyz/taglib"
)

// readDuration returns the duration of an audio file in whole seconds.
func readDuration(path string) (int, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ExtMP3:
		return mp3Duration(path)
	case ExtFLAC:
		t, err := readFLAC(path)
		if err != nil {
			return 0, err
		}
		if !t.HasDuration() {
			return 0, fmt.Errorf("flac: no stream info in %s", path)
		}
		return t.Duration, nil
	case ExtM4A, ExtMP4:
		return m4aDuration(path)
	case ExtOPUS, ExtOGG, ExtOGA:
		props, err := taglib.ReadProperties(path)
		if err != nil {
			return 0, err
		}
		return int(props.Length.Seconds()), nil
	}
	return 0, fmt.Errorf("unsupported format: %s", ext)
}

func mp3Duration(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, err
	}
	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return 0, fmt.Errorf("mp3: invalid sample rate in %s", path)
	}
	samples := max(decoder.SampleCount(), 0)
	return int(float64(samples) / float64(sampleRate)), nil
}

func m4aDuration(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	container, err := m4a.Open(f)
	if err != nil {
		return 0, err
	}
	return int(container.Duration().Seconds()), nil
}
