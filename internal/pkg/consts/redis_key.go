package consts

const (
	UserHomeInfoKey       = "user:home:info:"
	UserFollowerCountKey  = "user:follower:count:"
	UserFollowingCountKey = "user:following:count:"
	PostLikeKey           = "post:like:"
	PostCommentKey        = "post:comment:"
	CommentLikeKey        = "comment:like:"
	PostDirtyKey          = "post:dirty"
	QuotePayloadKey       = "quote:payload:"
	QuoteDailyFreshKey    = "quote:daily:fresh:"
	TokenDenyKey          = "token:deny:"
)
