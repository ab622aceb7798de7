package media

import (
	"fmt"
	"image"
	"io"

	vidio "github.com/AlexEidt/Vidio"

	"github.com/framemill/framemill/internal/logging"
)

var log = logging.NewLogger("media")

type vidioDecoder struct {
	video  *vidio.Video
	meta   Meta
	closed bool
}

// OpenDecoder opens path as a video source and reads its intrinsic
// properties. Failure to probe the container is reported as an open error.
func OpenDecoder(path string) (Decoder, error) {
	video, err := vidio.NewVideo(path)
	if err != nil {
		return nil, fmt.Errorf("open video %q: %w", path, err)
	}

	meta := Meta{
		Width:       video.Width(),
		Height:      video.Height(),
		FPS:         video.FPS(),
		TotalFrames: video.Frames(),
	}
	if err := meta.Validate(); err != nil {
		video.Close()
		return nil, fmt.Errorf("probe video %q: %w", path, err)
	}

	log.Debugf("opened %s: %dx%d @ %.3f fps, %d frames",
		path, meta.Width, meta.Height, meta.FPS, meta.TotalFrames)
	return &vidioDecoder{video: video, meta: meta}, nil
}

func (d *vidioDecoder) Meta() Meta { return d.meta }

func (d *vidioDecoder) ReadFrame() (*image.RGBA, error) {
	if d.closed {
		return nil, io.EOF
	}
	if !d.video.Read() {
		return nil, io.EOF
	}

	// The decoder reuses its frame buffer, so each frame is copied out.
	frame := image.NewRGBA(image.Rect(0, 0, d.meta.Width, d.meta.Height))
	copy(frame.Pix, d.video.FrameBuffer())
	return frame, nil
}

func (d *vidioDecoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.video.Close()
	return nil
}

type vidioEncoder struct {
	writer *vidio.VideoWriter
	width  int
	height int
	closed bool
}

// OpenEncoder opens an output sink at path sized width x height, writing at
// the given frame rate.
func OpenEncoder(path string, width, height int, fps float64) (Encoder, error) {
	options := vidio.Options{FPS: fps}
	writer, err := vidio.NewVideoWriter(path, width, height, &options)
	if err != nil {
		return nil, fmt.Errorf("open video writer %q: %w", path, err)
	}
	log.Debugf("opened writer %s: %dx%d @ %.3f fps", path, width, height, fps)
	return &vidioEncoder{writer: writer, width: width, height: height}, nil
}

func (e *vidioEncoder) WriteFrame(frame *image.RGBA) error {
	if e.closed {
		return fmt.Errorf("write frame: encoder closed")
	}
	b := frame.Bounds()
	if b.Dx() != e.width || b.Dy() != e.height {
		return fmt.Errorf("write frame: got %dx%d, encoder expects %dx%d",
			b.Dx(), b.Dy(), e.width, e.height)
	}
	if err := e.writer.Write(frame.Pix); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (e *vidioEncoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.writer.Close()
	return nil
}
