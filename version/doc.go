// Package version reports the build of a seqkit binary.
//
// Values are set at link time and fall back to the VCS stamps the Go
// toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/seqkit/version.Version=1.0.0" ./cmd/seqdemo
package version
