package types

import "github.com/nicolasparada/go-errs"

const maxPageSize = 200

type PageArgs struct {
	First *uint
	After *string
}

func (args *PageArgs) Validate() error {
	if args.First != nil && *args.First < 1 {
		return errs.InvalidArgumentError("first must be greater than 0")
	}

	if args.First != nil && *args.First > maxPageSize {
		return errs.InvalidArgumentError("first overflow")
	}

	return nil
}
