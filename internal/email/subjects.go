package email

const subjectWelcome = "Welcome to your new account"
