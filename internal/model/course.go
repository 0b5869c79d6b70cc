package model

const (
	TestFilePDF   = "pdf"
	TestFileImage = "image"
)

// Course 课程，包含按 Order 排序的视频与 PDF 以及可选的结课测试
// swagger:model Course
type Course struct {
	BaseModel
	Title             string           `gorm:"size:100;not null" json:"title"`
	Description       string           `gorm:"type:text" json:"description"`
	CategoryID        *uint            `gorm:"index" json:"categoryId"`
	Category          *Category        `json:"category,omitempty"`
	CertificateTypeID *uint            `gorm:"index" json:"certificateTypeId"`
	CertificateType   *CertificateType `json:"certificateType,omitempty"`
	PassingScore      int              `gorm:"not null" json:"passingScore"`
	TestRequired      bool             `gorm:"not null" json:"testRequired"`
	TestFile          string           `gorm:"size:255" json:"testFile,omitempty"`
	TestFileType      string           `gorm:"size:20" json:"testFileType,omitempty"`
	TestQuestionCount int              `json:"testQuestionCount"`
	TestAnswerKey     string           `gorm:"size:500" json:"-"`
	Videos            []Video          `gorm:"foreignKey:CourseID" json:"videos,omitempty"`
	Pdfs              []Pdf            `gorm:"foreignKey:CourseID" json:"pdfs,omitempty"`
	AssignedUsers     []User           `gorm:"many2many:assigned_courses;" json:"assignedUsers,omitempty"`
	Groups            []Group          `gorm:"many2many:course_groups;" json:"groups,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// HasTestMaterial 测试文件、答案和题目数量齐全才可作答
func (c *Course) HasTestMaterial() bool {
	return c.TestFile != "" && c.TestAnswerKey != "" && c.TestQuestionCount > 0
}

// swagger:model Video
type Video struct {
	BaseModel
	CourseID  uint   `gorm:"index;not null" json:"courseId"`
	Title     string `gorm:"size:100;not null" json:"title"`
	FilePath  string `gorm:"size:255;not null" json:"filePath"`
	FileURL   string `gorm:"size:255" json:"fileUrl"`
	Duration  int    `json:"duration"` // 秒
	Thumbnail string `gorm:"size:255" json:"thumbnail,omitempty"`
	Order     int    `gorm:"column:sort_order;not null" json:"order"`
}

func (Video) TableName() string {
	return "videos"
}

// swagger:model Pdf
type Pdf struct {
	BaseModel
	CourseID uint   `gorm:"index;not null" json:"courseId"`
	Title    string `gorm:"size:100;not null" json:"title"`
	FilePath string `gorm:"size:255;not null" json:"filePath"`
	FileURL  string `gorm:"size:255" json:"fileUrl"`
	Order    int    `gorm:"column:sort_order;not null" json:"order"`
}

func (Pdf) TableName() string {
	return "pdfs"
}
