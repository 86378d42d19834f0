package model

import (
	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

func (r CreateCategoryRequest) Validate() error {
	return ozzo.ValidateStruct(&r,
		ozzo.Field(&r.Name, ozzo.Required, ozzo.RuneLength(1, NameMaxLength)),
	)
}

func (r UpdateCategoryRequest) Validate() error {
	return ozzo.ValidateStruct(&r,
		ozzo.Field(&r.Name, ozzo.NilOrNotEmpty, ozzo.RuneLength(1, NameMaxLength)),
	)
}
