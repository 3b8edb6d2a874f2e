package speech

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/lakshya-inakhiya/go-ash/internal/httpc"
)

// GoogleRecognizer records an utterance and transcribes it through the
// Google speech API v2 endpoint. Audio goes up as raw 16-bit WAV, which
// sidesteps the FLAC encoder dependency entirely.
type GoogleRecognizer struct {
	rec    Recorder
	config *Config
	http   *http.Client
	logger *slog.Logger
}

// NewGoogleRecognizer creates a recognizer. An API key is required; get
// one into the environment and pass it with WithAPIKey.
func NewGoogleRecognizer(opts ...Option) (*GoogleRecognizer, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	logger := cfg.Logger.With("component", "speech.recognizer")

	rec := cfg.Recorder
	if rec == nil {
		rec = NewALSARecorder(cfg.Device, cfg.SampleRate, cfg.Logger)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = httpc.NewClient(cfg.Timeout)
	}

	return &GoogleRecognizer{
		rec:    rec,
		config: cfg,
		http:   hc,
		logger: logger,
	}, nil
}

// Listen records one phrase and returns the transcript.
func (g *GoogleRecognizer) Listen(ctx context.Context) (string, error) {
	wav, err := g.rec.Record(ctx, g.config.PhraseTimeLimit)
	if err != nil {
		return "", err
	}

	text, err := g.recognize(ctx, wav)
	if err != nil {
		return "", err
	}

	g.logger.Debug("recognized", "chars", len(text))
	return text, nil
}

// recognize posts the WAV payload and parses the line-delimited JSON
// the endpoint answers with. The first line is usually an empty result;
// the transcript follows on a later line.
func (g *GoogleRecognizer) recognize(ctx context.Context, wav []byte) (string, error) {
	q := url.Values{}
	q.Set("client", "chromium")
	q.Set("lang", g.config.Language)
	q.Set("key", g.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, "POST",
		g.config.RecognizerURL+"?"+q.Encode(), bytes.NewReader(wav))
	if err != nil {
		return "", fmt.Errorf("speech: create request: %w", err)
	}
	req.Header.Set("Content-Type", fmt.Sprintf("audio/l16; rate=%d;", g.config.SampleRate))

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech: recognize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("speech: recognize: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var result recognizeResponse
		if err := json.Unmarshal([]byte(line), &result); err != nil {
			continue
		}
		if len(result.Result) == 0 || len(result.Result[0].Alternative) == 0 {
			continue
		}
		transcript := strings.TrimSpace(result.Result[0].Alternative[0].Transcript)
		if transcript != "" {
			return transcript, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("speech: read response: %w", err)
	}
	return "", ErrNoSpeech
}

// Close releases resources.
func (g *GoogleRecognizer) Close() error {
	g.http.CloseIdleConnections()
	return nil
}

// recognizeResponse is one line of the endpoint's output.
type recognizeResponse struct {
	Result []struct {
		Alternative []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternative"`
		Final bool `json:"final"`
	} `json:"result"`
	ResultIndex int `json:"result_index"`
}

// GoogleSynthesizer turns text into MP3 through the Google Translate
// TTS endpoint and plays it. Long text is split into chunks the
// endpoint accepts and played back to back.
type GoogleSynthesizer struct {
	config *Config
	http   *http.Client
	player Player
	logger *slog.Logger
}

// NewGoogleSynthesizer creates a speaker. No key is needed.
func NewGoogleSynthesizer(opts ...Option) (*GoogleSynthesizer, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	logger := cfg.Logger.With("component", "speech.synthesizer")

	player := cfg.Player
	if player == nil {
		p, err := NewExecPlayer(cfg.Logger)
		if err != nil {
			return nil, err
		}
		player = p
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = httpc.NewClient(cfg.Timeout)
	}

	return &GoogleSynthesizer{
		config: cfg,
		http:   hc,
		player: player,
		logger: logger,
	}, nil
}

// Say synthesizes text and plays it, returning when playback finishes.
func (g *GoogleSynthesizer) Say(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}

	chunks := splitChunks(text, maxChunkLen)
	g.logger.Debug("speaking", "chars", len(text), "chunks", len(chunks))

	for i, chunk := range chunks {
		audio, err := g.fetch(ctx, chunk, i, len(chunks))
		if err != nil {
			return err
		}
		if err := g.player.Play(ctx, audio); err != nil {
			return fmt.Errorf("speech: play: %w", err)
		}
	}
	return nil
}

// fetch downloads the MP3 for one chunk.
func (g *GoogleSynthesizer) fetch(ctx context.Context, chunk string, idx, total int) ([]byte, error) {
	speed := "1"
	if g.config.Slow {
		speed = "0.24"
	}

	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", g.config.Language)
	q.Set("q", chunk)
	q.Set("idx", strconv.Itoa(idx))
	q.Set("total", strconv.Itoa(total))
	q.Set("textlen", strconv.Itoa(len(chunk)))
	q.Set("ttsspeed", speed)

	req, err := http.NewRequestWithContext(ctx, "GET",
		g.config.SynthesizerURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("speech: create request: %w", err)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech: synthesize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech: synthesize: status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("speech: read audio: %w", err)
	}
	return audio, nil
}

// Close releases resources.
func (g *GoogleSynthesizer) Close() error {
	g.http.CloseIdleConnections()
	return nil
}

// Verify the interfaces at compile time.
var (
	_ Recognizer = (*GoogleRecognizer)(nil)
	_ Speaker    = (*GoogleSynthesizer)(nil)
)
