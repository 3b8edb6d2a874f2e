// hw-test exercises each robot component one at a time: display, I2C
// bus, servos, microphone, speaker and the Gemini API. Run it on a
// fresh build to pin down wiring problems before starting the full
// robot.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/lakshya-inakhiya/go-ash/internal/config"
	applog "github.com/lakshya-inakhiya/go-ash/internal/log"
	"github.com/lakshya-inakhiya/go-ash/pkg/brain"
	"github.com/lakshya-inakhiya/go-ash/pkg/display"
	"github.com/lakshya-inakhiya/go-ash/pkg/faces"
	"github.com/lakshya-inakhiya/go-ash/pkg/gesture"
	"github.com/lakshya-inakhiya/go-ash/pkg/speech"
)

var assumeYes bool

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the settings file")
	flag.BoolVar(&assumeYes, "yes", false, "Run the servo movement test without asking")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("❌ Configuration error: %v\n", err)
		os.Exit(1)
	}
	applog.Init(settings.Main.LogLevel)

	line := strings.Repeat("=", 60)
	fmt.Println(line)
	fmt.Println("          ASH ROBOT - HARDWARE TEST SUITE")
	fmt.Println(line)
	fmt.Println("\nEach component is tested on its own. Run the suite in order")
	fmt.Println("to identify issues before starting the full robot.")

	ctx := context.Background()
	checks := []struct {
		name string
		run  func(context.Context, config.Settings) bool
	}{
		{"Display", testDisplay},
		{"I2C", testI2C},
		{"Servos", testServos},
		{"Microphone", testMicrophone},
		{"Speaker", testSpeaker},
		{"Gemini", testGemini},
	}

	results := make(map[string]bool, len(checks))
	for i, c := range checks {
		heading(i+1, c.name)
		results[c.name] = c.run(ctx, settings)
		time.Sleep(time.Second)
	}

	fmt.Println("\n" + line)
	fmt.Println("TEST SUMMARY")
	fmt.Println(line)

	passed := 0
	for _, c := range checks {
		status := "❌ FAILED"
		if results[c.name] {
			status = "✅ PASSED"
			passed++
		}
		fmt.Printf("%-15s %s\n", c.name, status)
	}

	fmt.Println("\n" + line)
	fmt.Printf("Results: %d/%d tests passed\n", passed, len(checks))
	fmt.Println(line)

	if passed == len(checks) {
		fmt.Println("\n🎉 All tests passed! Hardware is ready.")
		fmt.Println("You can now run: go run ./cmd/ash")
		return
	}
	fmt.Println("\n⚠️  Some tests failed. Review the errors above.")
	os.Exit(1)
}

func heading(n int, name string) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Printf("TEST %d: %s\n", n, name)
	fmt.Println(strings.Repeat("=", 60))
}

// testDisplay brings up the configured backend and cycles through every
// expression so a connected panel visibly changes.
func testDisplay(ctx context.Context, settings config.Settings) bool {
	backend, err := display.New(settings.Display.Config, applog.Component("hw-test"))
	if err != nil {
		fmt.Printf("❌ Display: %v\n", err)
		return false
	}
	defer backend.Close()

	switch backend.Kind() {
	case display.KindSimulated:
		fmt.Println("⚠️  No panel found, frames go to the simulated backend")
	default:
		fmt.Printf("✅ Panel detected: %s\n", backend)
	}

	cache, err := faces.Load(settings.Display.FacesDir)
	if err != nil {
		fmt.Printf("⚠️  No face art in %s, drawing stock faces\n", settings.Display.FacesDir)
		if cache, err = faces.Generated(); err != nil {
			fmt.Printf("❌ Face render: %v\n", err)
			return false
		}
	}
	fmt.Printf("✅ Face images loaded: %d expressions\n", cache.Len())

	fmt.Println("\nCycling expressions...")
	for _, expr := range faces.All() {
		fmt.Printf("  %s\n", expr)
		if err := backend.Present(cache.Get(expr)); err != nil {
			fmt.Printf("❌ Present %s: %v\n", expr, err)
			return false
		}
		time.Sleep(time.Second)
	}
	if err := backend.Clear(color.RGBA{A: 0xFF}); err != nil {
		fmt.Printf("❌ Clear: %v\n", err)
		return false
	}

	fmt.Println("\n✅ Display: PASSED")
	return true
}

// testI2C checks that the PCA9685 answers on the bus before any servo
// code touches it. Same idea as i2cdetect: a one byte read at the
// configured address.
func testI2C(ctx context.Context, settings config.Settings) bool {
	s := settings.Servos

	if _, err := host.Init(); err != nil {
		fmt.Printf("❌ I2C: host init: %v\n", err)
		return false
	}
	bus, err := i2creg.Open(s.I2CBus)
	if err != nil {
		fmt.Printf("❌ I2C: %v\n", err)
		fmt.Println("   Check:")
		fmt.Println("   - I2C enabled: sudo raspi-config")
		fmt.Println("   - Bus present: ls /dev/i2c-*")
		return false
	}
	defer bus.Close()
	fmt.Printf("✅ I2C bus open: %s\n", bus)

	fmt.Printf("\nProbing address 0x%02X...\n", s.I2CAddress)
	dev := i2c.Dev{Bus: bus, Addr: uint16(s.I2CAddress)}
	var probe [1]byte
	if err := dev.Tx(nil, probe[:]); err != nil {
		fmt.Printf("\n❌ PCA9685 NOT detected at 0x%02X!\n", s.I2CAddress)
		fmt.Println("   Check wiring:")
		fmt.Println("   - VCC → Pi Pin 1 (3.3V)")
		fmt.Println("   - GND → Pi Pin 6")
		fmt.Println("   - SDA → Pi Pin 3")
		fmt.Println("   - SCL → Pi Pin 5")
		return false
	}
	fmt.Printf("✅ PCA9685 detected at address 0x%02X\n", s.I2CAddress)

	fmt.Println("\n✅ I2C: PASSED")
	return true
}

// testServos probes the PCA9685 and, with permission, sweeps both arms.
func testServos(ctx context.Context, settings config.Settings) bool {
	s := settings.Servos
	servos, err := gesture.New(
		gesture.WithI2CBus(s.I2CBus),
		gesture.WithI2CAddress(uint16(s.I2CAddress)),
		gesture.WithPWMFrequency(s.PWMFrequency),
		gesture.WithChannels(s.Channels.LeftArm, s.Channels.RightArm),
		gesture.WithPulseRange(s.PulseRange.Min, s.PulseRange.Max),
		gesture.WithTransitionSpeed(s.TransitionSpeed),
		gesture.WithLogger(applog.Component("hw-test")),
	)
	if err != nil {
		fmt.Printf("❌ Servos: %v\n", err)
		return false
	}
	defer servos.Close()

	if servos.Simulated() {
		fmt.Println("⚠️  Servos in simulation mode (board not detected)")
		fmt.Println("   Check wiring:")
		fmt.Println("   - VCC → Pi Pin 1 (3.3V)")
		fmt.Println("   - GND → Pi Pin 6")
		fmt.Println("   - SDA → Pi Pin 3")
		fmt.Println("   - SCL → Pi Pin 5")
		fmt.Println("   - I2C enabled: sudo raspi-config")
		return false
	}

	fmt.Println("✅ Servo controller initialized")
	fmt.Printf("   Left arm:  channel %d\n", s.Channels.LeftArm)
	fmt.Printf("   Right arm: channel %d\n", s.Channels.RightArm)

	fmt.Println("\n⚠️  WARNING: Servos will move!")
	fmt.Println("   Make sure:")
	fmt.Println("   - Servo power supply is ON")
	fmt.Println("   - Servos are not obstructed")
	fmt.Println("   - You can stop with Ctrl+C")

	if !confirm("\nProceed with servo test? (y/n): ") {
		fmt.Println("Skipped servo movement test")
		return true
	}

	fmt.Println("\nSweeping arms (watch carefully)...")
	if err := servos.Sweep(ctx); err != nil {
		fmt.Printf("❌ Sweep: %v\n", err)
		return false
	}

	fmt.Println("\n✅ Servos: PASSED")
	return true
}

// testMicrophone records two seconds through arecord.
func testMicrophone(ctx context.Context, settings config.Settings) bool {
	rec := speech.NewALSARecorder(
		settings.Audio.Device,
		settings.Audio.SampleRate,
		applog.Component("hw-test"),
	)
	if !rec.Available() {
		fmt.Println("❌ Microphone not available")
		fmt.Println("   Check:")
		fmt.Println("   - USB microphone connected")
		fmt.Println("   - arecord installed (alsa-utils)")
		fmt.Println("   - Device recognized: arecord -l")
		return false
	}

	fmt.Println("✅ Capture tool detected (arecord)")
	fmt.Printf("   Sample rate: %d Hz\n", settings.Audio.SampleRate)
	if key := config.GoogleSpeechKey(); key == "" {
		fmt.Printf("⚠️  %s not set, recognition will be unavailable\n", config.EnvGoogleSpeechKey)
	}

	fmt.Println("\nRecording for 2 seconds...")
	wav, err := rec.Record(ctx, 2*time.Second)
	if err != nil {
		fmt.Printf("❌ Record: %v\n", err)
		return false
	}
	fmt.Printf("   Captured %d bytes of WAV audio\n", len(wav))

	fmt.Println("\n✅ Microphone: PASSED")
	return true
}

// testSpeaker synthesizes a line and plays it.
func testSpeaker(ctx context.Context, settings config.Settings) bool {
	speaker, err := speech.NewGoogleSynthesizer(
		speech.WithLanguage(settings.Audio.Language),
		speech.WithSlow(settings.Audio.TTSSlow),
		speech.WithLogger(applog.Component("hw-test")),
	)
	if err != nil {
		fmt.Printf("❌ Speaker: %v\n", err)
		fmt.Println("   Check:")
		fmt.Println("   - Speaker connected, volume up")
		fmt.Println("   - Playback tool installed: aplay -l")
		return false
	}
	defer speaker.Close()

	fmt.Println("Testing text-to-speech...")
	sayCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := speaker.Say(sayCtx, "Hello! This is a test of the audio output system."); err != nil {
		fmt.Printf("❌ Say: %v\n", err)
		return false
	}

	fmt.Println("\n✅ Speaker: PASSED")
	fmt.Println("   Did you hear the test message?")
	return true
}

// testGemini sends one prompt to the model.
func testGemini(ctx context.Context, settings config.Settings) bool {
	key, err := config.GeminiAPIKey()
	if err != nil {
		fmt.Printf("❌ Gemini: %v\n", err)
		return false
	}

	g, err := brain.NewGemini(
		brain.WithAPIKey(key),
		brain.WithModel(settings.LLM.Model),
		brain.WithSystemInstruction(settings.LLM.SystemInstruction),
		brain.WithMaxTokens(settings.LLM.MaxTokens),
		brain.WithLogger(applog.Component("hw-test")),
	)
	if err != nil {
		fmt.Printf("❌ Gemini: %v\n", err)
		return false
	}
	defer g.Close()

	question := "Say hello in one sentence."
	fmt.Println("Testing Gemini API...")

	askCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	response, err := g.Ask(askCtx, question)
	if err != nil {
		fmt.Printf("❌ Ask: %v\n", err)
		return false
	}

	fmt.Printf("\nQuestion: %s\n", question)
	fmt.Printf("Response: %s\n", response)
	fmt.Println("\n✅ Gemini API: PASSED")
	return true
}

// confirm prompts on the console; -yes answers everything.
func confirm(prompt string) bool {
	if assumeYes {
		return true
	}
	fmt.Print(prompt)
	reply, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(reply)) == "y"
}
