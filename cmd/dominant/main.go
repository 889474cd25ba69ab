// dominant - find the dominant colours of an image
//
// dominant clusters the pixels of an image with k-means and reports the
// most representative colours together with how much of the image each
// one covers.
package main

import "github.com/jmylchreest/dominant/internal/cli"

func main() {
	cli.Execute()
}
