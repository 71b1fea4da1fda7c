// adscore прогнозирует эффективность рекламных креативов из командной строки.
//
// Usage:
//
//	adscore palette <image> [--k=5] [--brand=#ff5500]
//	adscore score <layout.json> [--image=<path>] [--brand=#ff5500]
//	adscore abtest <variants.json> [--prior=100]
//	adscore compare <layouts.json> [--prior=100]
//	adscore serve [--addr=:8080]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
