package util

import (
	"fmt"
	"os"
	"time"
)

// Spinner animates a progress indicator on stdout until stop is closed.
// Meant for the network discovery phase, where a build can sit quietly
// through several backoff cycles.
func Spinner(text string, stop chan bool) {
	frames := []string{"-", "\\", "|", "/"}
	for {
		for _, frame := range frames {
			select {
			case <-stop:
				// Clear the spinner line before handing stdout back.
				fmt.Printf("\r%*s\r", len(text)+6, "")
				return
			default:
			}
			// \r returns the cursor so the next frame overwrites this one.
			fmt.Printf("\r%s %s... ", frame, text)
			os.Stdout.Sync()
			time.Sleep(100 * time.Millisecond)
		}
	}
}
