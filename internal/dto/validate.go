package dto

import (
	"errors"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var namePattern = regexp.MustCompile(`^[\p{L}\s]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(fl.Field().String())
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if a, ok := field.Interface().(Amount); ok {
			return a.InexactFloat64()
		}
		return nil
	}, Amount{})
	return v
}

// messages maps "<StructField>.<tag>" to the text shown to callers.
var messages = map[string]map[string]string{
	"PersonRequest": {
		"Nome.required":           "Nome é obrigatório.",
		"Nome.min":                "Nome muito curto.",
		"Nome.max":                "Nome muito longo.",
		"Nome.personname":         "Nome não deve conter números.",
		"DataNascimento.required": "Data de nascimento é obrigatória.",
	},
	"CategoryRequest": {
		"Descricao.required":  "Descrição é obrigatória.",
		"Descricao.min":       "Descrição muito curta.",
		"Descricao.max":       "Descrição muito longa.",
		"Finalidade.required": "Finalidade é obrigatória.",
		"Finalidade.min":      "Finalidade deve ser Despesa, Receita ou Ambas.",
		"Finalidade.max":      "Finalidade deve ser Despesa, Receita ou Ambas.",
	},
	"TransactionRequest": {
		"Descricao.required":     "A descrição é obrigatória.",
		"Descricao.min":          "Descrição muito curta ou muito longa.",
		"Descricao.max":          "Descrição muito curta ou muito longa.",
		"Valor.gt":               "O valor deve ser maior que zero.",
		"Tipo.required":          "Tipo de transação é obrigatório.",
		"Tipo.oneof":             "Tipo deve ser Despesa ou Receita.",
		"DataTransacao.required": "Data da transação é obrigatória.",
		"CategoriaID.min":        "Categoria é obrigatória.",
		"PessoaID.min":           "Pessoa é obrigatória.",
	},
}

// Validate checks a request struct and returns one message per failed
// field, in field order. It returns nil when the request is valid.
func Validate(req any) []string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Requisição inválida."}
	}

	name := reflect.Indirect(reflect.ValueOf(req)).Type().Name()
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[name][fe.StructField()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " inválido."
		}
		out = append(out, msg)
	}
	return out
}
