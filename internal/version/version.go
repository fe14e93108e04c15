// 包 version：构建信息，由 -ldflags "-X commonyouth/internal/version.Commit=..." 注入
package version

var Commit = "dev"
