// Command awvm is a headless driver for the Another World virtual
// machine: it loads MEMLIST.BIN and numbered bank files from a content
// directory, runs the machine tic by tic, and, with -dump-frames, hands
// completed frames to a reference Host that dumps them to disk (without
// it, frames and audio are discarded). There is no window and no
// audio device here by design (spec.md §1 places the concrete presenter
// and mixer out of scope); this binary exists to exercise the library
// end to end the way a real front end eventually would.
package main

func main() {
	Execute()
}
