package models

import "time"

// React applies the toggle-or-switch rule for userID. An empty kind means like.
func (p *Post) React(userID uint, kind ReactionKind, now time.Time) ReactionOutcome {
	if kind == "" {
		kind = ReactionLike
	}
	for i, r := range p.Reactions {
		if r.UserID != userID {
			continue
		}
		if r.Kind == kind {
			p.Reactions = append(p.Reactions[:i], p.Reactions[i+1:]...)
			return ReactionRemoved
		}
		p.Reactions[i].Kind = kind
		p.Reactions[i].CreatedAt = now
		return ReactionChanged
	}
	p.Reactions = append(p.Reactions, Reaction{UserID: userID, Kind: kind, CreatedAt: now})
	return ReactionAdded
}

// ToggleLike is the legacy like endpoint: it reports whether the user now likes the post.
func (p *Post) ToggleLike(userID uint, now time.Time) bool {
	return p.React(userID, ReactionLike, now) != ReactionRemoved
}

func (p *Post) AddComment(userID uint, content string, now time.Time) Comment {
	c := Comment{
		ID:        newEmbeddedID(),
		UserID:    userID,
		Content:   content,
		Likes:     []Like{},
		Replies:   []Reply{},
		CreatedAt: now,
	}
	p.Comments = append(p.Comments, c)
	return c
}

func (p *Post) FindComment(commentID string) (*Comment, error) {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i], nil
		}
	}
	return nil, ErrCommentNotFound
}

// ToggleCommentLike reports whether the user likes the comment after the call
func (p *Post) ToggleCommentLike(commentID string, userID uint, now time.Time) (LikeResult, error) {
	c, err := p.FindComment(commentID)
	if err != nil {
		return LikeResult{}, err
	}
	var liked bool
	c.Likes, liked = toggleLike(c.Likes, userID, now)
	return LikeResult{Liked: liked, Count: len(c.Likes)}, nil
}

func (p *Post) AddReply(commentID string, userID uint, content string, now time.Time) (Reply, error) {
	c, err := p.FindComment(commentID)
	if err != nil {
		return Reply{}, err
	}
	r := Reply{
		ID:        newEmbeddedID(),
		UserID:    userID,
		Content:   content,
		Likes:     []Like{},
		CreatedAt: now,
	}
	c.Replies = append(c.Replies, r)
	return r, nil
}

func (p *Post) ToggleReplyLike(commentID, replyID string, userID uint, now time.Time) (LikeResult, error) {
	c, err := p.FindComment(commentID)
	if err != nil {
		return LikeResult{}, err
	}
	r, err := c.FindReply(replyID)
	if err != nil {
		return LikeResult{}, err
	}
	var liked bool
	r.Likes, liked = toggleLike(r.Likes, userID, now)
	return LikeResult{Liked: liked, Count: len(r.Likes)}, nil
}

func (p *Post) AddShare(userID uint, now time.Time) {
	p.Shares = append(p.Shares, Share{UserID: userID, CreatedAt: now})
}

// WithoutBlockedComments returns a copy of the post whose comments and
// replies exclude authors in blocked. The receiver is not modified.
func (p Post) WithoutBlockedComments(blocked map[uint]struct{}) Post {
	if len(blocked) == 0 || len(p.Comments) == 0 {
		return p
	}
	kept := make([]Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		if _, skip := blocked[c.UserID]; skip {
			continue
		}
		replies := make([]Reply, 0, len(c.Replies))
		for _, r := range c.Replies {
			if _, skip := blocked[r.UserID]; !skip {
				replies = append(replies, r)
			}
		}
		c.Replies = replies
		kept = append(kept, c)
	}
	p.Comments = kept
	return p
}
