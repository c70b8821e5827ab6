package candidate

import "errors"

var (
	// ErrInvalidFullName は氏名が空の場合に返却されます。
	ErrInvalidFullName = errors.New("candidate: invalid full name")
	// ErrInvalidDepartment は部署がストレージの enum に存在しない場合に返却されます。
	ErrInvalidDepartment = errors.New("candidate: invalid department")
	// ErrMissingField は必須カラムが欠けている場合に返却されます。
	ErrMissingField = errors.New("candidate: missing required field")
	// ErrInvalidCandidate はチェック制約に違反した場合に返却されます。
	ErrInvalidCandidate = errors.New("candidate: invalid candidate")
	// ErrEmployeeIDAlreadyExists は社員 ID が重複した場合に返却されます。
	ErrEmployeeIDAlreadyExists = errors.New("candidate: employee id already exists")
	// ErrRegistrationFailed はリトライを使い切っても保存できなかった場合に返却されます。
	ErrRegistrationFailed = errors.New("candidate: registration failed")
)
