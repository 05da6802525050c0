// Package buildinfo 保存构建时注入的版本信息，供 boxfit --version 输出。
//
// 发布构建通过 ldflags 写入：
//
//	go build -ldflags "-X github.com/ByLCY/boxfit/buildinfo.Version=v0.3.0 \
//	    -X github.com/ByLCY/boxfit/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/ByLCY/boxfit/buildinfo.Date=$(date -u +%Y-%m-%d)"
package buildinfo

import "fmt"

// 未注入时保留占位值，本地 go run 会显示 dev。
var (
	// Version 为发布版本号，例如 "v0.3.0"。
	Version = "dev"
	// Commit 为构建所用的 git 提交。
	Commit = "none"
	// Date 为构建日期（UTC）。
	Date = "unknown"
)

// Template 返回 cobra 的版本模板：首行为命令名与版本，其后是提交与构建日期。
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
