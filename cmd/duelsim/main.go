// Command duelsim drives the duel engine through scripted encounters:
// a single run with a narrated battle log, a batch of trials aggregated
// into win/draw statistics, or a replay of a previously saved snapshot.
// Grounded on the teacher's cmd/aossim/main.go (single-binary simulator
// entry point), rebuilt on cobra per the pack's pableeee-go-cs-metrics
// CLI convention instead of the teacher's stdlib flag parsing.
package main

func main() {
	Execute()
}
