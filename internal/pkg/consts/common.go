package consts

const (
	MimePrefixImage = "image"
)

const (
	DefaultAvatarURL = "default_avatar.png"
)

// QuoteDateLayout 快照日期格式，与行情提供方保持一致
const QuoteDateLayout = "2006-01-02"
