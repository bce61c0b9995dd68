package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/cogentcore/reisen"
)

const (
	defaultFrameDuration = time.Second / 30
	// Consecutive rewinds without a decoded frame before playback gives up.
	maxEmptyLoops = 2
)

var errNoVideoStream = errors.New("no video stream")

// videoSource decodes the first video stream of a file with ffmpeg through reisen.
type videoSource struct {
	media    *reisen.Media
	stream   *reisen.VideoStream
	maxSize  int
	frameDur time.Duration
	log      *slog.Logger
	once     sync.Once
}

// openVideo opens path and decodes its first frame. Playback is muted and loops.
func openVideo(path string, maxSize int, log *slog.Logger) (*Decoded, error) {
	m, err := reisen.NewMedia(path)
	if err != nil {
		return nil, fmt.Errorf("media: open video %s: %w", path, err)
	}
	if err := m.OpenDecode(); err != nil {
		m.Close()
		return nil, fmt.Errorf("media: open video %s: %w", path, err)
	}
	streams := m.VideoStreams()
	if len(streams) == 0 {
		m.CloseDecode()
		m.Close()
		return nil, fmt.Errorf("media: %s: %w", path, errNoVideoStream)
	}
	v := &videoSource{media: m, stream: streams[0], maxSize: maxSize, frameDur: defaultFrameDuration, log: log}
	if err := v.stream.Open(); err != nil {
		v.closeMedia()
		return nil, fmt.Errorf("media: open video stream %s: %w", path, err)
	}
	if num, den := v.stream.FrameRate(); num > 0 && den > 0 {
		v.frameDur = time.Duration(float64(time.Second) * float64(den) / float64(num))
	}
	first, err := v.next()
	if err != nil {
		v.close()
		return nil, fmt.Errorf("media: first frame %s: %w", path, err)
	}
	return &Decoded{Image: first, Play: v.play, Close: v.close}, nil
}

// next returns the following frame, rewinding at the end of the stream.
func (v *videoSource) next() (*image.RGBA, error) {
	empty := 0
	for {
		packet, ok, err := v.media.ReadPacket()
		if err != nil {
			return nil, err
		}
		if !ok {
			if empty++; empty > maxEmptyLoops {
				return nil, errNoVideoStream
			}
			if err := v.stream.Rewind(0); err != nil {
				return nil, err
			}
			continue
		}
		if packet.Type() != reisen.StreamVideo || packet.StreamIndex() != v.stream.Index() {
			continue
		}
		frame, ok, err := v.stream.ReadVideoFrame()
		if err != nil {
			return nil, err
		}
		if !ok || frame == nil {
			continue
		}
		return Fit(frame.Image(), v.maxSize), nil
	}
}

// play pushes frames into out at the stream's frame rate until ctx is done. A slow consumer
// sees the newest frame; stale ones are dropped. Decode errors freeze the last frame.
func (v *videoSource) play(ctx context.Context, out chan<- *image.RGBA) {
	defer v.close()
	tick := time.NewTicker(v.frameDur)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
		img, err := v.next()
		if err != nil {
			v.log.Debug("video playback stopped", "err", err)
			return
		}
		select {
		case out <- img:
		case <-ctx.Done():
			return
		default:
			// Consumer has not taken the previous frame yet; skip this one.
		}
	}
}

func (v *videoSource) close() {
	v.once.Do(func() {
		v.stream.Close()
		v.closeMedia()
	})
}

func (v *videoSource) closeMedia() {
	v.media.CloseDecode()
	v.media.Close()
}
