package catalog

import (
	"errors"
	"fmt"
	"strings"

	"support-flow-go/internal/model"
)

// ErrUnknownCategory 表示类别没有注册问题树，这属于启动期配置错误。
var ErrUnknownCategory = errors.New("unknown issue category")

// FirstQuestion 返回类别问题树的根问题。
// 类别未注册属于配置错误，调用方应在启动校验通过后才提供服务。
func FirstQuestion(category model.IssueCategory) (*model.Question, error) {
	tree, ok := questionTrees[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	return tree.Questions[tree.RootID], nil
}

// Question 按 ID 查找类别树中的问题。
func Question(category model.IssueCategory, questionID string) (*model.Question, bool) {
	tree, ok := questionTrees[category]
	if !ok {
		return nil, false
	}
	q, ok := tree.Questions[questionID]
	return q, ok
}

// NextQuestionID 根据归一化后的答案查找下一个问题的 ID。
// 返回 false 表示当前节点是叶子或者答案未命中任何分支，
// 这是"进入决议匹配"的约定信号，不是错误。
func NextQuestionID(category model.IssueCategory, questionID, normalizedAnswer string) (string, bool) {
	q, ok := Question(category, questionID)
	if !ok || q.NextQuestionMap == nil {
		return "", false
	}
	next, ok := q.NextQuestionMap[normalizedAnswer]
	return next, ok
}

// TreeDepth 返回类别问题树从根到叶的最长路径长度，供进度上报使用。
func TreeDepth(category model.IssueCategory) int {
	tree, ok := questionTrees[category]
	if !ok {
		return 0
	}
	return depthFrom(tree, tree.RootID, map[string]bool{})
}

func depthFrom(tree *model.QuestionTree, id string, visited map[string]bool) int {
	if visited[id] {
		return 0
	}
	visited[id] = true
	defer delete(visited, id)

	q := tree.Questions[id]
	max := 0
	for _, next := range q.NextQuestionMap {
		if d := depthFrom(tree, next, visited); d > max {
			max = d
		}
	}
	return max + 1
}

// FindResolution 在类别的路径表中按声明顺序匹配首个全部条件满足的路径。
// 没有任何路径匹配时返回最后声明的兜底路径。
// 该函数是纯函数：相同的 (category, answers) 输入必然得到相同的路径。
func FindResolution(category model.IssueCategory, answers map[string]string) *model.ResolutionPath {
	list := resolutionPaths[category]
	if len(list) == 0 {
		return nil
	}
	for i := range list {
		if pathMatches(&list[i], answers) {
			return &list[i]
		}
	}
	return &list[len(list)-1]
}

func pathMatches(path *model.ResolutionPath, answers map[string]string) bool {
	for _, cond := range path.Conditions {
		if !conditionSatisfied(cond, answers) {
			return false
		}
	}
	return true
}

// conditionSatisfied 对单个条件求值。缺失的答案必定不满足条件。
// switch 对运算符枚举做穷尽处理：新增运算符时必须补充对应分支。
func conditionSatisfied(cond model.ResolutionCondition, answers map[string]string) bool {
	answer, ok := answers[cond.QuestionID]
	if !ok {
		return false
	}
	switch cond.Operator {
	case model.OperatorEquals:
		return len(cond.Expected) > 0 && answer == cond.Expected[0]
	case model.OperatorContains:
		return len(cond.Expected) > 0 && strings.Contains(answer, cond.Expected[0])
	case model.OperatorOneOf:
		for _, e := range cond.Expected {
			if answer == e {
				return true
			}
		}
		return false
	case model.OperatorGreaterThan, model.OperatorLessThan:
		// 保留运算符：尚未实现数值比较，按"条件不成立"处理以保证安全。
		return false
	default:
		return false
	}
}

// Validate 在启动时校验目录的结构完整性，任何悬空引用都应阻止服务启动：
//   - 每个类别都注册了问题树与决议路径表；
//   - 根问题存在，所有边都指向树内存在的问题；
//   - 从根出发不可达成环，也不存在从根不可达的孤儿问题；
//   - 每个类别的路径表以零条件兜底路径结尾，条件引用的问题 ID 均存在。
func Validate() error {
	for _, category := range model.AllCategories() {
		tree, ok := questionTrees[category]
		if !ok {
			return fmt.Errorf("category %s has no question tree", category)
		}
		if _, ok := tree.Questions[tree.RootID]; !ok {
			return fmt.Errorf("category %s: root question %q does not exist", category, tree.RootID)
		}

		for id, q := range tree.Questions {
			if q.ID != id {
				return fmt.Errorf("category %s: question key %q does not match id %q", category, id, q.ID)
			}
			for answer, next := range q.NextQuestionMap {
				if _, ok := tree.Questions[next]; !ok {
					return fmt.Errorf("category %s: question %q edge %q points to missing question %q", category, id, answer, next)
				}
			}
		}

		if err := checkAcyclic(tree); err != nil {
			return fmt.Errorf("category %s: %w", category, err)
		}

		reachable := map[string]bool{}
		collectReachable(tree, tree.RootID, reachable)
		for id := range tree.Questions {
			if !reachable[id] {
				return fmt.Errorf("category %s: question %q is unreachable from root", category, id)
			}
		}

		list, ok := resolutionPaths[category]
		if !ok || len(list) == 0 {
			return fmt.Errorf("category %s has no resolution paths", category)
		}
		if len(list[len(list)-1].Conditions) != 0 {
			return fmt.Errorf("category %s: last resolution path %q must have zero conditions", category, list[len(list)-1].ID)
		}
		for _, p := range list {
			for _, cond := range p.Conditions {
				if _, ok := tree.Questions[cond.QuestionID]; !ok {
					return fmt.Errorf("category %s: path %q condition references missing question %q", category, p.ID, cond.QuestionID)
				}
			}
		}
	}
	return nil
}

// checkAcyclic 从根做 DFS，发现递归栈上的重复节点即判定成环。
func checkAcyclic(tree *model.QuestionTree) error {
	onStack := map[string]bool{}
	var visit func(id string) error
	visit = func(id string) error {
		if onStack[id] {
			return fmt.Errorf("cycle detected at question %q", id)
		}
		onStack[id] = true
		defer delete(onStack, id)
		for _, next := range tree.Questions[id].NextQuestionMap {
			if err := visit(next); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(tree.RootID)
}

func collectReachable(tree *model.QuestionTree, id string, seen map[string]bool) {
	if seen[id] {
		return
	}
	seen[id] = true
	for _, next := range tree.Questions[id].NextQuestionMap {
		collectReachable(tree, next, seen)
	}
}
