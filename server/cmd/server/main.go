// Command golfcoach-server runs the golf coaching backend.
package main

import "github.com/fairwaylab/golfcoach/server/internal/cli"

func main() {
	cli.Execute()
}
