// @title Adaptive Edu 后端 API
// @version 1.0
// @description 基于贝叶斯知识追踪的自适应测评与学习路径服务。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey AdminKeyAuth
// @in header
// @name X-Admin-Key

package main

import (
	"os"

	"adaptive_edu_backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
