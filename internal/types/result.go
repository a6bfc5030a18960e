package types

import (
	"bytes"
	"encoding/binary"
)

// JobResult is the typed outcome of a completed job. Exactly one concrete
// result type exists per job kind.
type JobResult interface {
	// ResultKind reports the job kind that produced this result.
	ResultKind() JobKind
}

// TextResult is the output of a text generation job.
type TextResult struct {
	Text string `json:"text"`
}

func (TextResult) ResultKind() JobKind { return JobKindText }

// ImageResult is the output of an image generation job.
type ImageResult struct {
	Content []byte `json:"content"`
	MIME    string `json:"mime"`
}

func (ImageResult) ResultKind() JobKind { return JobKindImage }

// SampleFormat describes raw PCM audio, parsed from mime parameters such as
// "audio/L16;codec=pcm;rate=24000".
type SampleFormat struct {
	Rate     int `json:"rate"`
	Bits     int `json:"bits"`
	Channels int `json:"channels"`
}

// AudioResult is the output of a voice synthesis job. Content holds the raw
// sample data as produced by the remote job.
type AudioResult struct {
	Content []byte       `json:"content"`
	MIME    string       `json:"mime"`
	Format  SampleFormat `json:"format"`
}

func (AudioResult) ResultKind() JobKind { return JobKindVoice }

// WAV wraps the raw PCM content in a RIFF/WAVE header so it can be written
// out as a playable file. Content is not modified.
func (r AudioResult) WAV() []byte {
	var buf bytes.Buffer

	blockAlign := r.Format.Channels * r.Format.Bits / 8
	byteRate := r.Format.Rate * blockAlign
	dataLen := uint32(len(r.Content))

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, 36+dataLen)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(r.Format.Channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(r.Format.Rate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(r.Format.Bits))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, dataLen)
	buf.Write(r.Content)

	return buf.Bytes()
}

// Idea is a single generated content idea.
type Idea struct {
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Hook            string   `json:"hook,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	EstimatedLength string   `json:"estimated_length,omitempty"`
	Difficulty      string   `json:"difficulty,omitempty"`
}

// IdeasResult is the output of an ideas job. Order follows the artifact
// payload.
type IdeasResult struct {
	Ideas []Idea `json:"ideas"`
}

func (IdeasResult) ResultKind() JobKind { return JobKindIdeas }

// PlaygroundResult is the output of a playground job: the file paths the
// remote job committed, in manifest order.
type PlaygroundResult struct {
	Files []string `json:"files"`
}

func (PlaygroundResult) ResultKind() JobKind { return JobKindPlayground }
