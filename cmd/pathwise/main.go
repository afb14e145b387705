// Command pathwise 运行推荐服务或离线训练模型包。
//
// Usage:
//
//	pathwise serve [--config configs/config.yaml]
//	pathwise train [--pathway all|career|education|tesda] [--csv data.csv] [--out models]
package main

import (
	"fmt"
	"os"

	"github.com/rushteam/pathwise/cmd/pathwise/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
