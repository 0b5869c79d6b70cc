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

// 文件上传相关常量
const (
	MimeVideo       = "video/"
	MimeImage       = "image/"
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
	MimeXLSX        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// 上传目录
const (
	DirVideos       = "videos"
	DirPdfs         = "pdfs"
	DirTests        = "tests"
	DirCertificates = "certificates"
	DirThumbnails   = "thumbnails"
)

// 证书编号前缀
const CertificatePrefix = "CERT-"

// PublicUploadDirs 本地存储时经 /uploads 公开访问的目录，证书不在其中
var PublicUploadDirs = []string{DirVideos, DirPdfs, DirTests, DirThumbnails}

var (
	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"}
	AllowedImageExtensions = []string{".png", ".jpg", ".jpeg"}
)
