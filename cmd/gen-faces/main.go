// gen-faces draws the stock expression art into a directory of PNGs,
// in the layout the robot loads at boot.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lakshya-inakhiya/go-ash/pkg/faces"
)

func main() {
	dir := flag.String("dir", "faces", "Output directory for the PNGs")
	force := flag.Bool("force", false, "Overwrite existing files without asking")
	flag.Parse()

	line := strings.Repeat("=", 50)
	fmt.Println(line)
	fmt.Println("  Ash Face Generator")
	fmt.Println(line)
	fmt.Println()
	fmt.Printf("This will create %d face images (%dx%d PNG)\n",
		len(faces.All()), faces.Width, faces.Height)
	fmt.Printf("in the %s/ directory.\n", *dir)
	fmt.Println()
	fmt.Println("NOTE: These are simple placeholder faces.")
	fmt.Println("Replace them with better designs for production!")
	fmt.Println()

	if !*force && !confirmOverwrite(*dir) {
		fmt.Println("Cancelled.")
		return
	}

	fmt.Println()
	fmt.Println("Generating faces...")
	if err := faces.Save(*dir); err != nil {
		log.Fatalf("❌ %v", err)
	}
	for _, expr := range faces.All() {
		fmt.Printf("Created: %s\n", filepath.Join(*dir, string(expr)+".png"))
	}

	fmt.Println()
	fmt.Println(line)
	fmt.Println("  Complete!")
	fmt.Println(line)
	fmt.Println()
	fmt.Printf("Face images created in %s/\n", *dir)
	fmt.Println()
	fmt.Println("Test them with:")
	fmt.Println("  go run ./cmd/ash -backend simulated -text")
	fmt.Println()
	fmt.Println("These are simple placeholder faces.")
	fmt.Println("Consider replacing them with custom artwork.")
}

// confirmOverwrite asks before clobbering existing art. Returns true
// when nothing is in the way or the user agreed.
func confirmOverwrite(dir string) bool {
	var existing []string
	for _, expr := range faces.All() {
		name := string(expr) + ".png"
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			existing = append(existing, name)
		}
	}
	if len(existing) == 0 {
		return true
	}

	fmt.Printf("Warning: %d file(s) already exist:\n", len(existing))
	for _, name := range existing {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println()
	fmt.Print("Overwrite existing files? (y/n): ")

	reply, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(reply)) == "y"
}
