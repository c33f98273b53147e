// Package main runs repopulse, a live repository-state synchronization
// daemon for interactive host applications.
package main

import "github.com/repopulse/repopulse/internal"

func main() {
	internal.Run()
}
