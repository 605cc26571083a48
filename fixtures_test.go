package indexadvisor

const userSchema = `
type: object
x-collection: user
x-indexing:
  user_account_email_idx:
    fields:
      - field: account_id
      - field: contact.email
    unique: true
  user_email_idx:
    fields:
      - field: contact.email
    unique: true
  user_language_idx:
    fields:
      - field: language
properties:
  _id:
    type: string
  name:
    type: string
  contact:
    type: object
    properties:
      email:
        type: string
  account_id:
    type: integer
  language:
    type: string
  age:
    type: integer
`

const eventSchema = `
type: object
x-collection: event
x-indexing:
  event_timestamp_idx:
    fields:
      - field: timestamp
        direction: desc
properties:
  _id:
    type: string
  timestamp:
    type: string
`

func index(fields ...IndexField) Index {
	return Index{Fields: fields}.normalized()
}

func asc(field string) IndexField {
	return IndexField{Field: field, Direction: OrderByDirectionAsc}
}

func desc(field string) IndexField {
	return IndexField{Field: field, Direction: OrderByDirectionDesc}
}
