package service

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/threadline/threadline-backend/internal/classifier"
	"github.com/threadline/threadline-backend/internal/model"
	"github.com/threadline/threadline-backend/internal/repository"
	"gorm.io/gorm"
)

type VoteState string

const (
	VoteNone VoteState = "none"
	VoteUp   VoteState = "upvote"
	VoteDown VoteState = "downvote"
)

type TargetType string

const (
	TargetPost  TargetType = "post"
	TargetReply TargetType = "reply"
)

// Vote magnitudes, scaled.
const (
	pointsVote       = 1 * model.Scale
	pointsEngagement = 1 * model.Scale
	trickleParent    = model.Scale
	trickleGrand     = model.Scale / 2
	trickleRoot      = model.Scale / 4
)

var ErrInvalidTransition = errors.New("invalid vote transition")

// VoteTransition is one actor's vote change on one target, with the previous
// state supplied by the caller. The engine never reads current vote state
// itself, so concurrent transitions commute.
type VoteTransition struct {
	ActorUID string
	Target   TargetType
	TargetID uint64
	Previous VoteState
	New      VoteState
}

type VoteService interface {
	ApplyTransition(ctx context.Context, t VoteTransition) error
}

type voteService struct {
	events          repository.ScoreEventRepository
	posts           repository.PostRepository
	replies         repository.ReplyRepository
	ancestries      repository.ReplyAncestryRepository
	classifications repository.ReplyClassificationRepository
	cls             classifier.Classifier
}

func NewVoteService(
	events repository.ScoreEventRepository,
	posts repository.PostRepository,
	replies repository.ReplyRepository,
	ancestries repository.ReplyAncestryRepository,
	classifications repository.ReplyClassificationRepository,
	cls classifier.Classifier,
) VoteService {
	return &voteService{
		events:          events,
		posts:           posts,
		replies:         replies,
		ancestries:      ancestries,
		classifications: classifications,
		cls:             cls,
	}
}

func voteSign(s VoteState) int64 {
	switch s {
	case VoteUp:
		return 1
	case VoteDown:
		return -1
	}
	return 0
}

func validState(s VoteState) bool {
	return s == VoteNone || s == VoteUp || s == VoteDown
}

// ApplyTransition converts a vote change into a single atomic ledger batch.
// A switch (up->down or down->up) emits a removal and a fresh addition as two
// distinct events so reversal logic stays uniform and history auditable.
func (s *voteService) ApplyTransition(ctx context.Context, t VoteTransition) error {
	if t.ActorUID == "" {
		return errors.New("actor is required")
	}
	if !validState(t.Previous) || !validState(t.New) {
		return ErrInvalidTransition
	}
	if t.Previous == t.New {
		return nil
	}

	var (
		authorUID string
		reply     *model.Reply
		refType   model.RefType
		err       error
	)
	switch t.Target {
	case TargetPost:
		refType = model.RefPost
		post, ferr := s.posts.FindByID(ctx, t.TargetID)
		if ferr != nil {
			if errors.Is(ferr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return ferr
		}
		authorUID = post.AuthorUID
	case TargetReply:
		refType = model.RefReply
		reply, err = s.replies.FindByID(ctx, t.TargetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		authorUID = reply.AuthorUID
	default:
		return ErrInvalidTransition
	}

	var events []*model.ScoreEvent

	if t.Previous != VoteNone {
		events = append(events, &model.ScoreEvent{
			UserUID:     authorUID,
			ActorUID:    t.ActorUID,
			EventType:   model.EventReactionRemoved,
			DeltaPoints: -voteSign(t.Previous) * pointsVote,
			RefType:     refType,
			RefID:       t.TargetID,
			Meta:        metaJSON(map[string]string{"transition": string(t.Previous) + "->" + string(t.New)}),
		})
		if reply != nil {
			events = append(events, s.trickleFor(ctx, reply, t.ActorUID, t.Previous, true)...)
		}
	}

	if t.New != VoteNone {
		events = append(events, &model.ScoreEvent{
			UserUID:     authorUID,
			ActorUID:    t.ActorUID,
			EventType:   model.EventReactionReceived,
			DeltaPoints: voteSign(t.New) * pointsVote,
			RefType:     refType,
			RefID:       t.TargetID,
			Meta:        metaJSON(map[string]string{"transition": string(t.Previous) + "->" + string(t.New)}),
		})
		if reply != nil {
			events = append(events, s.trickleFor(ctx, reply, t.ActorUID, t.New, false)...)
		}

		engaged, cerr := s.events.CountForActor(ctx, t.ActorUID, model.EventReactionEngagement, refType, t.TargetID)
		if cerr != nil {
			return cerr
		}
		if engaged == 0 {
			events = append(events, &model.ScoreEvent{
				UserUID:     t.ActorUID,
				ActorUID:    t.ActorUID,
				EventType:   model.EventReactionEngagement,
				DeltaPoints: pointsEngagement,
				RefType:     refType,
				RefID:       t.TargetID,
			})
		}
	}

	return s.events.RecordEvents(ctx, events)
}

// trickleFor computes the secondary deltas for one vote direction on a reply.
// invert is true when the direction is being removed, in which case only a
// previously persisted classification counts: if none was stored, no trickle
// was ever awarded, so there is nothing to invert.
func (s *voteService) trickleFor(ctx context.Context, reply *model.Reply, actorUID string, direction VoteState, invert bool) []*model.ScoreEvent {
	if reply.ParentReplyID == nil {
		return nil // top-level replies never trickle
	}

	label, ok := s.classificationFor(ctx, reply, invert)
	if !ok {
		return nil
	}

	parentW, grandW, rootW := trickleWeights(label, direction)
	if parentW == 0 && grandW == 0 && rootW == 0 {
		return nil
	}
	if invert {
		parentW, grandW, rootW = -parentW, -grandW, -rootW
	}

	ancestry, err := s.resolveAncestry(ctx, reply)
	if err != nil {
		log.WithFields(log.Fields{"reply_id": reply.ID}).WithError(err).Warn("ancestry resolution failed, skipping trickle")
		return nil
	}

	slot := func(t model.EventType, uid string, delta int64) *model.ScoreEvent {
		return &model.ScoreEvent{
			UserUID:     uid,
			ActorUID:    actorUID,
			EventType:   t,
			DeltaPoints: delta,
			RefType:     model.RefReply,
			RefID:       reply.ID,
			Meta:        metaJSON(map[string]string{"label": string(label), "direction": string(direction)}),
		}
	}

	var events []*model.ScoreEvent
	if ancestry.ParentAuthorUID != "" && ancestry.ParentAuthorUID != reply.AuthorUID {
		events = append(events, slot(model.EventTrickleParent, ancestry.ParentAuthorUID, parentW))
	}
	if ancestry.GrandparentAuthorUID != "" && ancestry.GrandparentAuthorUID != reply.AuthorUID {
		events = append(events, slot(model.EventTrickleGrandparent, ancestry.GrandparentAuthorUID, grandW))
	}
	if ancestry.RootAuthorUID != "" && ancestry.RootAuthorUID != reply.AuthorUID {
		events = append(events, slot(model.EventTrickleRoot, ancestry.RootAuthorUID, rootW))
	}
	return events
}

// trickleWeights maps classification and direction to scaled magnitudes for
// parent, grandparent, and root. A supportive downvote has no defined trickle.
func trickleWeights(label classifier.Label, direction VoteState) (int64, int64, int64) {
	switch {
	case label == classifier.LabelSupportive && direction == VoteUp:
		return trickleParent, trickleGrand, trickleRoot
	case label == classifier.LabelContradictory && direction == VoteUp:
		return -trickleParent, -trickleGrand, -trickleRoot
	case label == classifier.LabelContradictory && direction == VoteDown:
		return trickleParent, trickleGrand, trickleRoot
	}
	return 0, 0, 0
}

// classificationFor returns the stable label for a reply. On first use the
// classifier is consulted and the verdict persisted; reversals only ever read
// the stored verdict. A classifier failure degrades to "no trickle" so the
// primary vote effect is never withheld.
func (s *voteService) classificationFor(ctx context.Context, reply *model.Reply, storedOnly bool) (classifier.Label, bool) {
	stored, err := s.classifications.Find(ctx, reply.ID)
	if err == nil {
		return classifier.Label(stored.Label), true
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.WithFields(log.Fields{"reply_id": reply.ID}).WithError(err).Warn("classification lookup failed, skipping trickle")
		return "", false
	}
	if storedOnly {
		return "", false
	}

	parentContent := ""
	if reply.ParentReplyID != nil {
		if parent, perr := s.replies.FindByID(ctx, *reply.ParentReplyID); perr == nil {
			parentContent = parent.Body
		}
	}
	result, err := s.cls.ClassifyReply(ctx, reply.ID, reply.Body, parentContent)
	if err != nil {
		log.WithFields(log.Fields{"reply_id": reply.ID}).WithError(err).Warn("classification failed, skipping trickle")
		return "", false
	}
	row, err := s.classifications.FindOrCreate(ctx, &model.ReplyClassification{
		ReplyID:    reply.ID,
		Label:      string(result.Label),
		Confidence: result.Confidence,
		Source:     result.Source,
	})
	if err != nil {
		log.WithFields(log.Fields{"reply_id": reply.ID}).WithError(err).Warn("classification persist failed, skipping trickle")
		return "", false
	}
	return classifier.Label(row.Label), true
}

// resolveAncestry returns the reply's lineage, lazily creating the row on
// first use with a two-hop parent walk plus the owning post's author.
func (s *voteService) resolveAncestry(ctx context.Context, reply *model.Reply) (*model.ReplyAncestry, error) {
	existing, err := s.ancestries.Find(ctx, reply.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := &model.ReplyAncestry{ReplyID: reply.ID, RootPostID: reply.PostID}
	if reply.ParentReplyID != nil {
		parent, perr := s.replies.FindByID(ctx, *reply.ParentReplyID)
		if perr != nil {
			return nil, perr
		}
		row.ParentReplyID = &parent.ID
		row.ParentAuthorUID = parent.AuthorUID
		if parent.ParentReplyID != nil {
			grand, gerr := s.replies.FindByID(ctx, *parent.ParentReplyID)
			if gerr != nil {
				return nil, gerr
			}
			row.GrandparentReplyID = &grand.ID
			row.GrandparentAuthorUID = grand.AuthorUID
		}
	}
	post, err := s.posts.FindByID(ctx, reply.PostID)
	if err != nil {
		return nil, err
	}
	row.RootAuthorUID = post.AuthorUID

	return s.ancestries.FindOrCreate(ctx, row)
}
