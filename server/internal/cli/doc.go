// Package cli implements the golfcoach-server command line.
//
//	golfcoach-server serve   [--config path] [--ui-dir dir]
//	golfcoach-server analyze --name swing.mp4 --size 1048576 --type video/mp4 [--lang ko]
//	golfcoach-server version
//
// The config path may also come from GOLFCOACH_CONFIG. With no config file
// the server runs on config.Default().
package cli
