package app

import (
	"context"
	"sort"
	"strings"

	"WarSim/internal/war/entity"
	"WarSim/internal/war/rules"
	"WarSim/internal/war/store"

	"go.uber.org/zap"
)

// CreateAlliance 创建联盟，创建者成为盟主和唯一成员。联盟名全局唯一。
func (s *Service) CreateAlliance(ctx context.Context, founder Key, name string) (entity.Alliance, error) {
	name = strings.TrimSpace(name)
	var created entity.Alliance
	err := s.store.Update(func(tx *store.Tx) error {
		if name == "" {
			return rules.Validation(rules.ReasonInvalidName)
		}
		n := tx.Nation(founder)
		if n.Alliance != "" {
			return rules.Precondition(rules.ReasonAlreadyInAlliance).WithData("alliance", n.Alliance)
		}
		if _, ok := tx.Alliance(name); ok {
			return rules.Precondition(rules.ReasonAllianceExists).WithData("alliance", name)
		}
		now := s.now()
		created = entity.Alliance{
			Name:       name,
			Leader:     founder,
			Members:    []entity.Member{{Key: founder, JoinedAt: now}},
			CreatedAt:  now,
			TotalPower: rules.TotalPower(s.cat, *n),
		}
		tx.PutAlliance(created)
		n.Alliance = name
		return nil
	})
	s.report(ctx, "alliance.create", founder, name, err)
	if err != nil {
		return entity.Alliance{}, err
	}
	return created.Clone(), nil
}

// JoinAlliance 加入联盟，联盟战力缓存加上加入者当前战力。
func (s *Service) JoinAlliance(ctx context.Context, player Key, name string) (entity.Alliance, error) {
	name = strings.TrimSpace(name)
	var joined entity.Alliance
	err := s.store.Update(func(tx *store.Tx) error {
		n := tx.Nation(player)
		if n.Alliance != "" {
			return rules.Precondition(rules.ReasonAlreadyInAlliance).WithData("alliance", n.Alliance)
		}
		a, ok := tx.Alliance(name)
		if !ok {
			return rules.NotFound(rules.ReasonAllianceNotFound).WithData("alliance", name)
		}
		a.Members = append(a.Members, entity.Member{Key: player, JoinedAt: s.now()})
		a.TotalPower += rules.TotalPower(s.cat, *n)
		n.Alliance = name
		joined = a.Clone()
		return nil
	})
	s.report(ctx, "alliance.join", player, name, err)
	if err != nil {
		return entity.Alliance{}, err
	}
	return joined, nil
}

// LeaveAlliance 退出联盟。盟主退出时由最早加入的剩余成员接任；没人了就解散。
func (s *Service) LeaveAlliance(ctx context.Context, player Key) (LeaveResult, error) {
	var res LeaveResult
	err := s.store.Update(func(tx *store.Tx) error {
		n := tx.Nation(player)
		if n.Alliance == "" {
			return rules.Precondition(rules.ReasonNotInAlliance)
		}
		var err error
		res, err = s.removeMember(tx, n.Alliance, player)
		return err
	})
	s.report(ctx, "alliance.leave", player, res.Alliance, err, zap.Bool("disbanded", res.Disbanded))
	if err != nil {
		return LeaveResult{}, err
	}
	return res, nil
}

// KickMember 盟主把同盟成员踢出，效果与该成员主动退出一致。
func (s *Service) KickMember(ctx context.Context, actor Key, targetPlayer int64) (LeaveResult, error) {
	target := targetKey(actor, targetPlayer)
	var res LeaveResult
	err := s.store.Update(func(tx *store.Tx) error {
		an := tx.Nation(actor)
		if an.Alliance == "" {
			return rules.Precondition(rules.ReasonNotInAlliance)
		}
		a, ok := tx.Alliance(an.Alliance)
		if !ok {
			return rules.NotFound(rules.ReasonAllianceNotFound).WithData("alliance", an.Alliance)
		}
		if a.Leader != actor {
			return rules.Precondition(rules.ReasonNotAllianceLeader)
		}
		if target == actor {
			return rules.Precondition(rules.ReasonCannotKickSelf)
		}
		tn := tx.Nation(target)
		if tn.Alliance != an.Alliance || !a.HasMember(target) {
			return rules.Precondition(rules.ReasonNotSameAlliance)
		}
		var err error
		res, err = s.removeMember(tx, an.Alliance, target)
		return err
	})
	s.report(ctx, "alliance.kick", actor, target.String(), err)
	if err != nil {
		return LeaveResult{}, err
	}
	return res, nil
}

// removeMember 是 leave/kick 共用的成员移除逻辑，必须在 Update 回调内调用。
func (s *Service) removeMember(tx *store.Tx, name string, member Key) (LeaveResult, error) {
	res := LeaveResult{Alliance: name}
	n := tx.Nation(member)
	n.Alliance = ""

	a, ok := tx.Alliance(name)
	if !ok {
		// 成员记录指向已不存在的联盟，修正成员状态即可
		return res, nil
	}
	wasLeader := a.Leader == member
	a.RemoveMember(member)
	// 按离开时的战力扣减，缓存可能因此偏离甚至为负，显式刷新前不修正
	a.TotalPower -= rules.TotalPower(s.cat, *n)
	if len(a.Members) == 0 {
		tx.DeleteAlliance(name)
		res.Disbanded = true
		return res, nil
	}
	if wasLeader {
		leader := a.Leader
		res.NewLeader = &leader
	}
	return res, nil
}

// InviteToAlliance 只做校验：发起人必须是盟主，被邀请人必须未入盟。
// 邀请的投递与接受由适配层负责，接受时走 JoinAlliance。
func (s *Service) InviteToAlliance(ctx context.Context, actor Key, targetPlayer int64) (Invitation, error) {
	target := targetKey(actor, targetPlayer)
	var inv Invitation
	var err error
	s.store.View(func(v *store.View) {
		err = checkInvite(v, actor, target)
		if err == nil {
			an, _ := v.Nation(actor)
			inv = Invitation{Alliance: an.Alliance, From: actor, To: target}
		}
	})
	s.report(ctx, "alliance.invite", actor, target.String(), err)
	if err != nil {
		return Invitation{}, err
	}
	return inv, nil
}

func checkInvite(v *store.View, actor, target Key) error {
	if actor == target {
		return rules.Validation(rules.ReasonSelfTarget)
	}
	an, ok := v.Nation(actor)
	if !ok || an.Alliance == "" {
		return rules.Precondition(rules.ReasonNotInAlliance)
	}
	a, ok := v.Alliance(an.Alliance)
	if !ok {
		return rules.NotFound(rules.ReasonAllianceNotFound).WithData("alliance", an.Alliance)
	}
	if a.Leader != actor {
		return rules.Precondition(rules.ReasonNotAllianceLeader)
	}
	if tn, ok := v.Nation(target); ok && tn.Alliance != "" {
		return rules.Precondition(rules.ReasonTargetInAlliance).WithData("alliance", tn.Alliance)
	}
	return nil
}

// AllianceInfo 返回联盟详情，成员按加入顺序并附带当前等级与战力。
func (s *Service) AllianceInfo(ctx context.Context, name string) (AllianceView, error) {
	var view AllianceView
	found := false
	s.store.View(func(v *store.View) {
		a, ok := v.Alliance(name)
		if !ok {
			return
		}
		found = true
		view = AllianceView{
			Name:       a.Name,
			Leader:     a.Leader,
			CreatedAt:  a.CreatedAt,
			TotalPower: a.TotalPower,
			Members:    make([]MemberView, 0, len(a.Members)),
		}
		for _, m := range a.Members {
			mv := MemberView{Key: m.Key, JoinedAt: m.JoinedAt, Leader: m.Key == a.Leader, Level: 1}
			if n, ok := v.Nation(m.Key); ok {
				mv.Level = n.Level
				mv.Power = rules.TotalPower(s.cat, *n)
			}
			view.Members = append(view.Members, mv)
		}
	})
	if !found {
		return AllianceView{}, rules.NotFound(rules.ReasonAllianceNotFound).WithData("alliance", name)
	}
	return view, nil
}

// Alliances 按缓存战力降序列出全部联盟，同战力按名称排序。
func (s *Service) Alliances(ctx context.Context) []entity.Alliance {
	list := s.store.Alliances()
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].TotalPower > list[j].TotalPower
	})
	return list
}

// RefreshAlliancePower 按成员当前战力重算联盟战力缓存。
func (s *Service) RefreshAlliancePower(ctx context.Context, name string) (int64, error) {
	var total int64
	err := s.store.Update(func(tx *store.Tx) error {
		a, ok := tx.Alliance(name)
		if !ok {
			return rules.NotFound(rules.ReasonAllianceNotFound).WithData("alliance", name)
		}
		total = 0
		for _, m := range a.Members {
			total += rules.TotalPower(s.cat, *tx.Nation(m.Key))
		}
		if total == a.TotalPower {
			return errUnchanged
		}
		a.TotalPower = total
		return nil
	})
	if err != nil && err != errUnchanged {
		s.report(ctx, "alliance.refresh_power", entity.Key{}, name, err)
		return 0, err
	}
	return total, nil
}
