package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeJSON = "application/json"
	MimeYAML = "application/x-yaml"
)

// 管理接口鉴权头
const AdminKeyHeader = "X-Admin-Key"
