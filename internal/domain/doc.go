// Package domain defines the core entities of the news pipeline: search
// tasks, the headlines they discover and the multi-language articles those
// headlines are rewritten into, along with the headline lifecycle rules.
//
// Types here carry no persistence or transport concerns.
package domain
