package integration

import (
	"net/http"
	"os"
	"testing"
	"time"
)

var BaseURL = baseURL()

func baseURL() string {
	if url := os.Getenv("API_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func TestMain(m *testing.M) {
	// 等待服务启动
	time.Sleep(5 * time.Second)

	// 运行测试
	code := m.Run()

	// 清理测试数据
	cleanup()

	os.Exit(code)
}

func cleanup() {
	// 这里可以添加清理测试数据的代码
	// 例如：删除测试过程中创建的机器、钱包等
}

// requireServer API 服务不可达时跳过测试
func requireServer(t *testing.T) {
	t.Helper()
	resp, err := http.Get(BaseURL + "/health")
	if err != nil {
		t.Skipf("API server not reachable at %s: %v", BaseURL, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Skipf("API server unhealthy at %s: %d", BaseURL, resp.StatusCode)
	}
}
