package util

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"
)

func GetJson(v interface{}) string {
	marshal, _ := json.Marshal(v)
	return string(marshal)
}

// UploadName 生成上传重命名：uploaded_<毫秒时间戳>_<原文件名>
func UploadName(originalName string, now time.Time) string {
	return fmt.Sprintf("uploaded_%d_%s", now.UnixMilli(), filepath.Base(originalName))
}
